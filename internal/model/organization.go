package model

import "time"

// OrgStatus is the lifecycle state of an organization
type OrgStatus string

const (
	OrgStatusPending   OrgStatus = "PENDING"
	OrgStatusApproved  OrgStatus = "APPROVED"
	OrgStatusSuspended OrgStatus = "SUSPENDED"
)

// PlanType is the subscription tier of an organization
type PlanType string

const (
	PlanFree PlanType = "FREE"
	PlanPlus PlanType = "PLUS"
)

// Organization is an entity authorized to receive donations
type Organization struct {
	ID                 uint      `json:"org_id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"type:varchar(255);not null"`
	RegistrationNumber *string   `json:"registration_number" gorm:"type:varchar(100)"`
	Description        *string   `json:"description" gorm:"type:text"`
	LogoURL            *string   `json:"logo_url" gorm:"column:logo_url;type:varchar(255)"`
	WalletAddress      *string   `json:"wallet_address" gorm:"type:varchar(100);uniqueIndex"`
	ContactInfo        *string   `json:"contact_info" gorm:"type:varchar(255)"`
	IsVerified         bool      `json:"is_verified" gorm:"not null"`
	PlanType           PlanType  `json:"plan_type" gorm:"type:varchar(10);not null"`
	Status             OrgStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	UserID             *uint     `json:"user_id,omitempty" gorm:"index"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsPlusPlan reports whether the organization pays for the PLUS tier
func (o *Organization) IsPlusPlan() bool {
	return o.PlanType == PlanPlus
}

// IsApproved reports whether the organization may run campaigns
func (o *Organization) IsApproved() bool {
	return o.Status == OrgStatusApproved
}

// ValidOrgStatus reports whether s names a known organization status
func ValidOrgStatus(s string) bool {
	switch OrgStatus(s) {
	case OrgStatusPending, OrgStatusApproved, OrgStatusSuspended:
		return true
	}
	return false
}
