package model

import "time"

// PlatformRole is the platform-wide role carried in access tokens
type PlatformRole string

const (
	RoleDonor         PlatformRole = "DONOR"
	RolePlatformAdmin PlatformRole = "PLATFORM_ADMIN"
)

// LoginPlatformLocal marks accounts that sign in with email and password
const LoginPlatformLocal = "local"

// User represents a donor or organization staff account
type User struct {
	ID            uint         `json:"user_id" gorm:"primaryKey"`
	Email         string       `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  *string      `json:"-" gorm:"type:varchar(255)"`
	LoginPlatform string       `json:"login_platform" gorm:"type:varchar(20);not null"`
	WalletAddress *string      `json:"wallet_address,omitempty" gorm:"type:varchar(100)"`
	Role          PlatformRole `json:"role" gorm:"type:varchar(30);not null"`
	IsActive      bool         `json:"is_active" gorm:"not null"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsPlatformAdmin reports whether the user may use the admin API
func (u *User) IsPlatformAdmin() bool {
	return u.Role == RolePlatformAdmin
}
