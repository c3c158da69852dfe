package repository

import (
	"context"

	"donation-service/internal/model"

	"gorm.io/gorm"
)

// MembershipRepository persists organization memberships
type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	FindFirstByUser(ctx context.Context, userID uint) (*model.Membership, error)
	FindByOrgAndUser(ctx context.Context, orgID, userID uint) (*model.Membership, error)
	ListByOrg(ctx context.Context, orgID uint) ([]model.Membership, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) error {
	err := r.db.WithContext(ctx).Create(m).Error
	return translateUnique(err, "user is already a member of this organization")
}

// FindFirstByUser returns the user's earliest membership or nil
func (r *membershipRepository) FindFirstByUser(ctx context.Context, userID uint) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) FindByOrgAndUser(ctx context.Context, orgID, userID uint) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListByOrg(ctx context.Context, orgID uint) ([]model.Membership, error) {
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}
