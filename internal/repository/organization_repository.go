package repository

import (
	"context"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"gorm.io/gorm"
)

// OrganizationRepository persists organizations
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uint) (*model.Organization, error)
	List(ctx context.Context, status *model.OrgStatus) ([]model.Organization, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

const walletTaken = "wallet address already in use"

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	err := r.db.WithContext(ctx).Create(org).Error
	return translateUnique(err, walletTaken)
}

// FindByID returns nil, nil when the organization does not exist
func (r *organizationRepository) FindByID(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// List returns PLUS organizations first, newest first within a tier
func (r *organizationRepository) List(ctx context.Context, status *model.OrgStatus) ([]model.Organization, error) {
	var orgs []model.Organization
	q := r.db.WithContext(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.
		Order("CASE WHEN plan_type = 'PLUS' THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Find(&orgs).Error
	return orgs, err
}

func (r *organizationRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Organization{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return translateUnique(result.Error, walletTaken)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("organization not found")
	}
	return nil
}
