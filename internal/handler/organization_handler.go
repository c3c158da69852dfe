package handler

import (
	"net/http"

	"donation-service/internal/middleware"
	"donation-service/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateOrganization handles POST /organizations
func (h *Handler) CreateOrganization(c echo.Context) error {
	var req service.CreateOrganizationInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, org)
}

// ListOrganizations handles GET /organizations and GET /admin/organizations
func (h *Handler) ListOrganizations(c echo.Context) error {
	orgs, err := h.Organizations.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, orgs)
}

// GetOrganization handles GET /organizations/:id
func (h *Handler) GetOrganization(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}

// requireOrgAdmin lets platform admins and the organization's ADMIN members through
func (h *Handler) requireOrgAdmin(c echo.Context, orgID uint) error {
	if middleware.IsPlatformAdmin(c) {
		return nil
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.Organizations.RequireAdmin(c.Request().Context(), orgID, userID)
}

// UpdateOrganization handles PATCH /organizations/:id
func (h *Handler) UpdateOrganization(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.requireOrgAdmin(c, id); err != nil {
		return respondError(c, err)
	}
	var req service.UpdateOrganizationInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}

// UpdateOrganizationWallet handles PATCH /organizations/:id/wallet
func (h *Handler) UpdateOrganizationWallet(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.requireOrgAdmin(c, id); err != nil {
		return respondError(c, err)
	}
	var req service.UpdateWalletInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.UpdateWallet(c.Request().Context(), id, req.WalletAddress)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}

// AdminApproveOrganization handles PATCH /admin/organizations/:id/approve
func (h *Handler) AdminApproveOrganization(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.Approve(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}

// AdminSuspendOrganization handles PATCH /admin/organizations/:id/suspend
func (h *Handler) AdminSuspendOrganization(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.Suspend(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}
