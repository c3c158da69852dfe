package service

import (
	"context"
	"strings"

	"donation-service/internal/apperror"
	"donation-service/internal/model"
	"donation-service/internal/repository"

	"go.uber.org/zap"
)

// UpdateProfileInput is the body of PATCH /me/profile
type UpdateProfileInput struct {
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

// UpdateWalletInput is the body of PATCH /me/wallet and the org wallet route
type UpdateWalletInput struct {
	WalletAddress string `json:"wallet_address" validate:"required,max=100"`
}

type UserService struct {
	stores repository.Stores
	log    *zap.Logger
}

func NewUserService(stores repository.Stores, log *zap.Logger) *UserService {
	return &UserService{stores: stores, log: log}
}

func (s *UserService) Get(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.stores.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, apperror.Validation("email must not be empty")
		}
		fields["email"] = email
	}
	if len(fields) == 0 {
		return s.Get(ctx, userID)
	}
	if err := s.stores.Users.Update(ctx, userID, fields); err != nil {
		return nil, err
	}
	s.log.Info("Profile updated", zap.Uint("user_id", userID))
	return s.Get(ctx, userID)
}

func (s *UserService) UpdateWallet(ctx context.Context, userID uint, in UpdateWalletInput) (*model.User, error) {
	wallet := strings.TrimSpace(in.WalletAddress)
	if wallet == "" {
		return nil, apperror.Validation("wallet_address is required")
	}
	if err := s.stores.Users.Update(ctx, userID, map[string]interface{}{"wallet_address": wallet}); err != nil {
		return nil, err
	}
	s.log.Info("Wallet updated", zap.Uint("user_id", userID))
	return s.Get(ctx, userID)
}
