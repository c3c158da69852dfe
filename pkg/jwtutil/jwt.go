package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"donation-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("unexpected token type")

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back to the client
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	// RefreshExpiresAt is kept server side to persist the refresh token
	RefreshExpiresAt time.Time `json:"-"`
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{config: cfg, now: time.Now}
}

// GeneratePair signs a fresh access and refresh token for the user
func (j *JWTUtil) GeneratePair(userID uint, email, role string) (*TokenPair, error) {
	now := j.now()
	accessExp := now.Add(j.config.AccessTTL)
	refreshExp := now.Add(j.config.RefreshTTL)

	access, err := j.sign(userID, email, role, TokenTypeAccess, now, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := j.sign(userID, email, role, TokenTypeRefresh, now, refreshExp)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (j *JWTUtil) sign(userID uint, email, role, tokenType string, issued, expires time.Time) (string, error) {
	claims := UserClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateAccessToken parses an access token
func (j *JWTUtil) ValidateAccessToken(tokenString string) (*UserClaims, error) {
	return j.validate(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken parses a refresh token
func (j *JWTUtil) ValidateRefreshToken(tokenString string) (*UserClaims, error) {
	return j.validate(tokenString, TokenTypeRefresh)
}

func (j *JWTUtil) validate(tokenString, tokenType string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
