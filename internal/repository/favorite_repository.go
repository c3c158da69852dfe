package repository

import (
	"context"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"gorm.io/gorm"
)

// FavoriteRepository persists user favorites
type FavoriteRepository interface {
	Create(ctx context.Context, f *model.FavoriteProject) error
	Delete(ctx context.Context, userID, projectID uint) error
	ListByUser(ctx context.Context, userID uint) ([]model.FavoriteProject, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, f *model.FavoriteProject) error {
	err := r.db.WithContext(ctx).Create(f).Error
	return translateUnique(err, "project already in favorites")
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, projectID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&model.FavoriteProject{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("favorite not found")
	}
	return nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint) ([]model.FavoriteProject, error) {
	var favs []model.FavoriteProject
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("favorited_at DESC").
		Find(&favs).Error
	return favs, err
}
