package jwtutil

import (
	"testing"
	"time"

	"donation-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUtil() *JWTUtil {
	return NewJWTUtil(&config.JWTConfig{
		SigningKey: "test-key",
		Issuer:     "donation-service",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

func TestGeneratePair_RoundTrip(t *testing.T) {
	j := newTestUtil()

	pair, err := j.GeneratePair(7, "donor@example.com", "DONOR")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.ExpiresAt))

	claims, err := j.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "donor@example.com", claims.Email)
	assert.Equal(t, "DONOR", claims.Role)

	_, err = j.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
}

func TestValidate_RejectsWrongTokenType(t *testing.T) {
	j := newTestUtil()
	pair, err := j.GeneratePair(7, "donor@example.com", "DONOR")
	require.NoError(t, err)

	_, err = j.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = j.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidate_RejectsForeignSignature(t *testing.T) {
	pair, err := newTestUtil().GeneratePair(7, "donor@example.com", "DONOR")
	require.NoError(t, err)

	other := NewJWTUtil(&config.JWTConfig{SigningKey: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidate_RejectsExpired(t *testing.T) {
	j := newTestUtil()
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := j.GeneratePair(7, "donor@example.com", "DONOR")
	require.NoError(t, err)

	_, err = j.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}
