package model

import "time"

// ApplicationStatus is the review state of an onboarding application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application is a user's request to onboard an organization.
// RejectedReason is set only when Status is REJECTED and ReviewedAt is
// set exactly when Status is not PENDING.
type Application struct {
	ID                 uint              `json:"application_id" gorm:"primaryKey"`
	UserID             uint              `json:"user_id" gorm:"not null;index"`
	OrgName            string            `json:"org_name" gorm:"type:varchar(255);not null"`
	RegistrationNumber *string           `json:"registration_number" gorm:"type:varchar(100)"`
	RegistrationDocURL *string           `json:"registration_doc_url" gorm:"column:registration_doc_url;type:varchar(255)"`
	ContactName        *string           `json:"contact_name" gorm:"type:varchar(100)"`
	ContactPhone       *string           `json:"contact_phone" gorm:"type:varchar(20)"`
	ContactEmail       *string           `json:"contact_email" gorm:"type:varchar(255)"`
	Description        *string           `json:"description" gorm:"type:text"`
	Status             ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	RejectedReason     *string           `json:"rejected_reason" gorm:"type:text"`
	ReviewedAt         *time.Time        `json:"reviewed_at"`
	CreatedAt          time.Time         `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Application) TableName() string {
	return "org_applications"
}

func (a *Application) IsPending() bool {
	return a.Status == ApplicationPending
}

func (a *Application) IsApproved() bool {
	return a.Status == ApplicationApproved
}

func (a *Application) IsRejected() bool {
	return a.Status == ApplicationRejected
}

// ValidApplicationStatus reports whether s names a known application status
func ValidApplicationStatus(s string) bool {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}
