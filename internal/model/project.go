package model

import (
	"math"
	"strconv"
	"time"
)

// ProjectStatus is the lifecycle state of a fundraising campaign
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "DRAFT"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectClosed    ProjectStatus = "CLOSED"
)

// Project is a fundraising campaign run by an organization.
// Money columns are numeric in Postgres and carried as decimal strings.
type Project struct {
	ID                  uint          `json:"project_id" gorm:"primaryKey"`
	OrgID               *uint         `json:"org_id" gorm:"index"`
	Nation              string        `json:"nation" gorm:"type:varchar(50);not null;index"`
	Title               string        `json:"title" gorm:"type:varchar(255);not null"`
	ThumbnailURL        *string       `json:"thumbnail_url" gorm:"column:thumbnail_url;type:varchar(255)"`
	ShortDescription    *string       `json:"short_description" gorm:"type:varchar(500)"`
	DetailedDescription *string       `json:"detailed_description" gorm:"type:text"`
	GoalAmount          *string       `json:"goal_amount" gorm:"type:numeric(20,2)"`
	CurrentRaisedUSDC   string        `json:"current_raised_usdc" gorm:"column:current_raised_usdc;type:numeric(20,8);not null"`
	Status              ProjectStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	StartDate           *time.Time    `json:"start_date"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrgID"`
}

// FundingPercentage returns raised/goal as a percentage capped at 100,
// or nil when the project has no goal.
func (p *Project) FundingPercentage() *float64 {
	if p.GoalAmount == nil {
		return nil
	}
	goal, err := strconv.ParseFloat(*p.GoalAmount, 64)
	if err != nil {
		return nil
	}
	pct := 0.0
	if goal > 0 {
		raised, _ := strconv.ParseFloat(p.CurrentRaisedUSDC, 64)
		pct = math.Min(raised/goal*100, 100)
	}
	return &pct
}

// IsGoalReached reports whether the raised amount meets the goal
func (p *Project) IsGoalReached() bool {
	if p.GoalAmount == nil {
		return false
	}
	goal, err := strconv.ParseFloat(*p.GoalAmount, 64)
	if err != nil {
		return false
	}
	raised, _ := strconv.ParseFloat(p.CurrentRaisedUSDC, 64)
	return raised >= goal
}

// ValidProjectStatus reports whether s names a known project status
func ValidProjectStatus(s string) bool {
	switch ProjectStatus(s) {
	case ProjectDraft, ProjectActive, ProjectCompleted, ProjectClosed:
		return true
	}
	return false
}
