package middleware

import (
	"net/http"
	"strings"

	"donation-service/internal/model"
	"donation-service/pkg/jwtutil"
	"donation-service/pkg/logger"
	"donation-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	RoleKey   = "role"
)

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": msg})
}

func forbidden(c echo.Context, msg string) error {
	return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": msg})
}

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal server error"})
}

// AuthMiddleware validates the access token from the Authorization header
func AuthMiddleware(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return unauthorized(c, "missing authorization token")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return unauthorized(c, "invalid authorization format, expected Bearer token")
			}

			claims, err := jwt.ValidateAccessToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(EmailKey, claims.Email)
			c.Set(RoleKey, claims.Role)
			logger.SetContextLogger(c, log.With(zap.Uint("user_id", claims.UserID)))

			return next(c)
		}
	}
}

// RequireRole allows only callers whose platform role is one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...model.PlatformRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			for _, r := range roles {
				if role == string(r) {
					return next(c)
				}
			}
			logger.FromContext(c).Warn("Platform role denied", zap.String("role", role))
			prometheus.RecordAuthError("role_denied")
			return forbidden(c, "insufficient permissions")
		}
	}
}

// UserID returns the authenticated user id
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(UserIDKey).(uint)
	return id, ok
}

// IsPlatformAdmin reports whether the caller holds the admin role
func IsPlatformAdmin(c echo.Context) bool {
	role, _ := c.Get(RoleKey).(string)
	return role == string(model.RolePlatformAdmin)
}
