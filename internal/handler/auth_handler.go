package handler

import (
	"net/http"

	"donation-service/internal/service"

	"github.com/labstack/echo/v4"
)

// Register handles POST /auth/register
func (h *Handler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *Handler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	pair, err := h.Auth.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	pair, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, pair)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Auth.Logout(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"message": "logged out"})
}
