package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donation-service/internal/model"
	"donation-service/pkg/config"
	"donation-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(&config.JWTConfig{
		SigningKey: "test-key",
		AccessTTL:  time.Hour,
		RefreshTTL: time.Hour,
	})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	jwt := testJWT()
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, ok := UserID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"user_id": id, "admin": IsPlatformAdmin(c)})
	}, AuthMiddleware(jwt))

	pair, err := jwt.GeneratePair(7, "donor@example.com", string(model.RoleDonor))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := serve(e, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwt := testJWT()
	e := echo.New()
	admin := e.Group("/admin", AuthMiddleware(jwt), RequireRole(model.RolePlatformAdmin))
	admin.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	donor, err := jwt.GeneratePair(7, "donor@example.com", string(model.RoleDonor))
	require.NoError(t, err)
	root, err := jwt.GeneratePair(1, "admin@example.com", string(model.RolePlatformAdmin))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+donor.AccessToken)
	assert.Equal(t, http.StatusForbidden, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+root.AccessToken)
	assert.Equal(t, http.StatusNoContent, serve(e, req).Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware)
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given")
	rec = serve(e, req)
	assert.Equal(t, "given", rec.Header().Get("X-Request-ID"))
}
