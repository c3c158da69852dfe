package repository

import (
	"context"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"gorm.io/gorm"
)

// ProjectFilter narrows project listings. Nil fields are ignored.
type ProjectFilter struct {
	Nation  *string
	Status  *model.ProjectStatus
	OrgID   *uint
	MinGoal *float64
	MaxGoal *float64
	Page
}

// ProjectRepository persists fundraising projects
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]model.Project, int64, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	IncrementRaised(ctx context.Context, id uint, amount string) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID loads the project with its organization, or nil when missing
func (r *projectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Preload("Organization").First(&p, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) List(ctx context.Context, f ProjectFilter) ([]model.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{})
	if f.Nation != nil {
		q = q.Where("nation = ?", *f.Nation)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.OrgID != nil {
		q = q.Where("org_id = ?", *f.OrgID)
	}
	if f.MinGoal != nil {
		q = q.Where("goal_amount >= ?", *f.MinGoal)
	}
	if f.MaxGoal != nil {
		q = q.Where("goal_amount <= ?", *f.MaxGoal)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := f.Page.normalize()
	var projects []model.Project
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("project not found")
	}
	return nil
}

// IncrementRaised adds amount to current_raised_usdc in the database
func (r *projectRepository) IncrementRaised(ctx context.Context, id uint, amount string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Update("current_raised_usdc", gorm.Expr("current_raised_usdc + ?::numeric", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("project not found")
	}
	return nil
}
