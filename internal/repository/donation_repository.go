package repository

import (
	"context"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"gorm.io/gorm"
)

// DonationFilter narrows donation listings. Nil fields are ignored.
type DonationFilter struct {
	UserID    *uint
	ProjectID *uint
	OrgID     *uint
	Status    *model.DonationStatus
	Page
}

// ProjectDonationSummary is one row of an organization report
type ProjectDonationSummary struct {
	ProjectID      uint   `json:"project_id"`
	Title          string `json:"title"`
	DonationCount  int64  `json:"donation_count"`
	TotalConfirmed string `json:"total_confirmed"`
}

// DonationRepository persists donations
type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) error
	FindByID(ctx context.Context, id uint) (*model.Donation, error)
	List(ctx context.Context, f DonationFilter) ([]model.Donation, int64, error)
	UpdateStatus(ctx context.Context, id uint, from, to model.DonationStatus) error
	SumConfirmedByProject(ctx context.Context, projectID uint) (string, error)
	SummarizeByOrg(ctx context.Context, orgID uint) ([]ProjectDonationSummary, error)
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, d *model.Donation) error {
	err := r.db.WithContext(ctx).Create(d).Error
	return translateUnique(err, "transaction hash already recorded")
}

// FindByID loads the donation with its project, or nil when missing
func (r *donationRepository) FindByID(ctx context.Context, id uint) (*model.Donation, error) {
	var d model.Donation
	if err := r.db.WithContext(ctx).Preload("Project").First(&d, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *donationRepository) List(ctx context.Context, f DonationFilter) ([]model.Donation, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Donation{})
	if f.UserID != nil {
		q = q.Where("donations.user_id = ?", *f.UserID)
	}
	if f.ProjectID != nil {
		q = q.Where("donations.project_id = ?", *f.ProjectID)
	}
	if f.Status != nil {
		q = q.Where("donations.status = ?", *f.Status)
	}
	if f.OrgID != nil {
		q = q.Joins("JOIN projects ON projects.id = donations.project_id").
			Where("projects.org_id = ?", *f.OrgID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := f.Page.normalize()
	var donations []model.Donation
	err := q.Order("donations.donation_date DESC").Limit(limit).Offset(offset).Find(&donations).Error
	return donations, total, err
}

// UpdateStatus moves a donation from one status to another. A donation
// that is no longer in from is left alone and yields InvalidState.
func (r *donationRepository) UpdateStatus(ctx context.Context, id uint, from, to model.DonationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Donation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.InvalidState("donation is no longer " + string(from))
	}
	return nil
}

// SumConfirmedByProject totals the coin amount of confirmed donations
func (r *donationRepository) SumConfirmedByProject(ctx context.Context, projectID uint) (string, error) {
	var total string
	err := r.db.WithContext(ctx).
		Model(&model.Donation{}).
		Select("COALESCE(SUM(coin_amount), 0)::text").
		Where("project_id = ? AND status = ?", projectID, model.DonationConfirmed).
		Scan(&total).Error
	return total, err
}

func (r *donationRepository) SummarizeByOrg(ctx context.Context, orgID uint) ([]ProjectDonationSummary, error) {
	var rows []ProjectDonationSummary
	err := r.db.WithContext(ctx).
		Table("projects").
		Select(`projects.id AS project_id, projects.title AS title,
			COUNT(donations.id) AS donation_count,
			COALESCE(SUM(CASE WHEN donations.status = ? THEN donations.coin_amount END), 0)::text AS total_confirmed`,
			model.DonationConfirmed).
		Joins("LEFT JOIN donations ON donations.project_id = projects.id").
		Where("projects.org_id = ?", orgID).
		Group("projects.id, projects.title").
		Order("projects.id").
		Scan(&rows).Error
	return rows, err
}
