package repository

import (
	"context"
	"time"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"gorm.io/gorm"
)

// ApplicationRepository persists onboarding applications
type ApplicationRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Application, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Application, error)
	FindAll(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error)
	Create(ctx context.Context, app *model.Application) error
	UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus, rejectedReason *string, reviewedAt time.Time) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindByID returns nil, nil when the application does not exist
func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByUser(ctx context.Context, userID uint) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) FindAll(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error) {
	var apps []model.Application
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Find(&apps).Error
	return apps, err
}

// Create inserts app. A second PENDING row for the same user trips the
// partial unique index and surfaces as a Conflict.
func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	err := r.db.WithContext(ctx).Create(app).Error
	return translateUnique(err, "an application is already under review")
}

// UpdateStatus moves a PENDING application to its terminal state. Rows that
// already left PENDING are not touched and yield an InvalidState error.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus, rejectedReason *string, reviewedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ? AND status = ?", id, model.ApplicationPending).
		Updates(map[string]interface{}{
			"status":          status,
			"rejected_reason": rejectedReason,
			"reviewed_at":     reviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.InvalidState("application is no longer pending")
	}
	return nil
}
