package model

import "time"

// MemberRole is a user's role inside one organization
type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "ADMIN"
	MemberRoleManager MemberRole = "MANAGER"
	MemberRoleViewer  MemberRole = "VIEWER"
)

// Membership links a user to an organization with a role
type Membership struct {
	ID       uint       `json:"org_member_id" gorm:"primaryKey"`
	OrgID    uint       `json:"org_id" gorm:"not null;uniqueIndex:uniq_org_members_org_user"`
	UserID   uint       `json:"user_id" gorm:"not null;uniqueIndex:uniq_org_members_org_user;index"`
	Role     MemberRole `json:"role" gorm:"type:varchar(20);not null"`
	JoinedAt time.Time  `json:"joined_at" gorm:"autoCreateTime"`

	Organization *Organization `json:"-" gorm:"foreignKey:OrgID"`
	User         *User         `json:"-" gorm:"foreignKey:UserID"`
}

func (Membership) TableName() string {
	return "org_members"
}

// HasRole reports whether the membership role is one of roles.
// An empty list matches every role.
func (m *Membership) HasRole(roles ...MemberRole) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if m.Role == r {
			return true
		}
	}
	return false
}
