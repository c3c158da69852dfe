package service

import (
	"context"

	"donation-service/internal/apperror"
	"donation-service/internal/model"
	"donation-service/internal/repository"

	"go.uber.org/zap"
)

type FavoriteService struct {
	stores repository.Stores
	log    *zap.Logger
}

func NewFavoriteService(stores repository.Stores, log *zap.Logger) *FavoriteService {
	return &FavoriteService{stores: stores, log: log}
}

func (s *FavoriteService) Add(ctx context.Context, userID, projectID uint) (*model.FavoriteProject, error) {
	p, err := s.stores.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("project not found")
	}

	fav := &model.FavoriteProject{UserID: userID, ProjectID: projectID}
	if err := s.stores.Favorites.Create(ctx, fav); err != nil {
		return nil, err
	}
	s.log.Debug("Project favorited", zap.Uint("user_id", userID), zap.Uint("project_id", projectID))
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, projectID uint) error {
	return s.stores.Favorites.Delete(ctx, userID, projectID)
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]model.FavoriteProject, error) {
	return s.stores.Favorites.ListByUser(ctx, userID)
}
