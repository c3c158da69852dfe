package handler

import (
	"net/http"

	"donation-service/internal/service"

	"github.com/labstack/echo/v4"
)

// GetProfile handles GET /me/profile
func (h *Handler) GetProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.Users.Get(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// UpdateProfile handles PATCH /me/profile
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateProfileInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.Users.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// GetWallet handles GET /me/wallet
func (h *Handler) GetWallet(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.Users.Get(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"wallet_address": user.WalletAddress})
}

// UpdateWallet handles PATCH /me/wallet
func (h *Handler) UpdateWallet(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateWalletInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.Users.UpdateWallet(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"wallet_address": user.WalletAddress})
}

// ListFavorites handles GET /me/favorites
func (h *Handler) ListFavorites(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	favs, err := h.Favorites.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, favs)
}

// AddFavorite handles POST /me/favorites/:projectId
func (h *Handler) AddFavorite(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	projectID, err := paramID(c, "projectId")
	if err != nil {
		return respondError(c, err)
	}
	fav, err := h.Favorites.Add(c.Request().Context(), userID, projectID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, fav)
}

// RemoveFavorite handles DELETE /me/favorites/:projectId
func (h *Handler) RemoveFavorite(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	projectID, err := paramID(c, "projectId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Favorites.Remove(c.Request().Context(), userID, projectID); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"message": "removed from favorites"})
}
