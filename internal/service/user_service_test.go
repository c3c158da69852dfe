package service

import (
	"context"
	"testing"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Profile(t *testing.T) {
	db := newMemDB()
	ctx := context.Background()
	user := &model.User{Email: "donor@example.com", Role: model.RoleDonor, IsActive: true}
	require.NoError(t, db.stores().Users.Create(ctx, user))
	svc := NewUserService(db.stores(), zap.NewNop())

	_, err := svc.Get(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	email := "  New@Example.com "
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	blank := " "
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Email: &blank})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	unchanged, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", unchanged.Email)
}

func TestUserService_UpdateWallet(t *testing.T) {
	db := newMemDB()
	ctx := context.Background()
	user := &model.User{Email: "donor@example.com", Role: model.RoleDonor, IsActive: true}
	require.NoError(t, db.stores().Users.Create(ctx, user))
	svc := NewUserService(db.stores(), zap.NewNop())

	_, err := svc.UpdateWallet(ctx, user.ID, UpdateWalletInput{WalletAddress: "  "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := svc.UpdateWallet(ctx, user.ID, UpdateWalletInput{WalletAddress: " 0xfeed "})
	require.NoError(t, err)
	require.NotNil(t, updated.WalletAddress)
	assert.Equal(t, "0xfeed", *updated.WalletAddress)
}
