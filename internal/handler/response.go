package handler

import (
	"net/http"
	"strconv"

	"donation-service/internal/apperror"
	"donation-service/internal/middleware"
	"donation-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// respondError maps err to a status and writes the failure envelope.
// Server errors are logged with their cause and never leak it.
func respondError(c echo.Context, err error) error {
	status := apperror.HTTPStatus(err)
	log := logger.FromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.Int("status", status), zap.String("error", err.Error()))
	}
	return c.JSON(status, echo.Map{"success": false, "error": apperror.Message(err)})
}

// bind decodes and validates the request body into req
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid " + name)
	}
	return uint(id), nil
}

func queryUint(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperror.Validation("invalid " + name)
	}
	u := uint(v)
	return &u, nil
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.Validation("invalid " + name)
	}
	return &v, nil
}

func queryInt(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name))
	return v
}

func queryString(c echo.Context, name string) *string {
	if v := c.QueryParam(name); v != "" {
		return &v
	}
	return nil
}

// currentUser returns the authenticated user id or an Unauthorized error
func currentUser(c echo.Context) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperror.Unauthorized("authentication required")
	}
	return id, nil
}

// currentMembership returns the membership resolved by OrgMember
func currentMembership(c echo.Context) (orgID uint, err error) {
	m, ok := middleware.Membership(c)
	if !ok {
		return 0, apperror.Forbidden("not a member of any organization")
	}
	return m.OrgID, nil
}
