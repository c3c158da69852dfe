package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"donation-service/internal/apperror"
	"donation-service/internal/model"
	"donation-service/internal/repository"
	"donation-service/pkg/jwtutil"
	"donation-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the body of POST /auth/register
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the body of POST /auth/login
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService issues and rotates tokens for local accounts
type AuthService struct {
	stores repository.Stores
	tx     repository.Transactor
	jwt    *jwtutil.JWTUtil
	log    *zap.Logger
}

func NewAuthService(stores repository.Stores, tx repository.Transactor, jwt *jwtutil.JWTUtil, log *zap.Logger) *AuthService {
	return &AuthService{stores: stores, tx: tx, jwt: jwt, log: log}
}

// Register creates a DONOR account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	existing, err := s.stores.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashed := string(hash)

	user := &model.User{
		Email:         email,
		PasswordHash:  &hashed,
		LoginPlatform: model.LoginPlatformLocal,
		Role:          model.RoleDonor,
		IsActive:      true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.stores.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	prometheus.RegisterCounter.Inc()
	s.log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login verifies credentials and issues a new token pair
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*jwtutil.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.stores.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil || !user.IsActive {
		prometheus.RecordAuthError("login_failure")
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		prometheus.RecordAuthError("login_failure")
		return nil, apperror.Unauthorized("invalid email or password")
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	prometheus.LoginCounter.Inc()
	s.log.Info("User logged in", zap.Uint("user_id", user.ID))
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented
// token stops being valid once the new pair is stored.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwtutil.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		prometheus.RecordAuthError("invalid_refresh_token")
		if errors.Is(err, jwtutil.ErrWrongTokenType) {
			return nil, apperror.Forbidden("not a refresh token")
		}
		return nil, apperror.Forbidden("invalid or expired refresh token")
	}

	stored, err := s.stores.RefreshTokens.FindByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.IsValid() || stored.UserID != claims.UserID {
		prometheus.RecordAuthError("refresh_token_reuse")
		return nil, apperror.Forbidden("refresh token is no longer valid")
	}

	user, err := s.stores.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Forbidden("account is not active")
	}

	return s.issue(ctx, user)
}

// Logout revokes every refresh token of the user
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.stores.RefreshTokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info("User logged out", zap.Uint("user_id", userID))
	return nil
}

// issue signs a pair and stores the refresh token, replacing any earlier
// refresh tokens of the user.
func (s *AuthService) issue(ctx context.Context, user *model.User) (*jwtutil.TokenPair, error) {
	pair, err := s.jwt.GeneratePair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(st repository.Stores) error {
		if err := st.RefreshTokens.RevokeAllForUser(ctx, user.ID); err != nil {
			return err
		}
		return st.RefreshTokens.Create(ctx, &model.RefreshToken{
			UserID:    user.ID,
			TokenHash: hashToken(pair.RefreshToken),
			ExpiresAt: pair.RefreshExpiresAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// PurgeStaleTokens deletes revoked and expired refresh tokens and returns
// how many live ones remain.
func (s *AuthService) PurgeStaleTokens(ctx context.Context) (deleted, active int64, err error) {
	now := time.Now()
	deleted, err = s.stores.RefreshTokens.DeleteStale(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	active, err = s.stores.RefreshTokens.CountActive(ctx, now)
	if err != nil {
		return deleted, 0, err
	}
	prometheus.SetActiveRefreshTokens(active)
	return deleted, active, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
