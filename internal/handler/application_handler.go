package handler

import (
	"net/http"

	"donation-service/internal/apperror"
	"donation-service/internal/middleware"
	"donation-service/internal/service"

	"github.com/labstack/echo/v4"
)

// SubmitApplication handles POST /org-applications
func (h *Handler) SubmitApplication(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.SubmitApplicationInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	app, err := h.Applications.Submit(c.Request().Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, app)
}

// MyApplications handles GET /org-applications/my
func (h *Handler) MyApplications(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	apps, err := h.Applications.ListMine(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, apps)
}

// GetApplication handles GET /org-applications/:id for the submitter
func (h *Handler) GetApplication(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	app, err := h.Applications.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if app.UserID != userID && !middleware.IsPlatformAdmin(c) {
		return respondError(c, apperror.NotFound("application not found"))
	}
	return respond(c, http.StatusOK, app)
}

// AdminListApplications handles GET /admin/applications?status=
func (h *Handler) AdminListApplications(c echo.Context) error {
	apps, err := h.Applications.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, apps)
}

// AdminGetApplication handles GET /admin/applications/:id
func (h *Handler) AdminGetApplication(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	app, err := h.Applications.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, app)
}

// ApproveApplication handles PATCH /admin/applications/:id/approve
func (h *Handler) ApproveApplication(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	result, err := h.Applications.Approve(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, result)
}

type rejectRequest struct {
	RejectedReason string `json:"rejected_reason" validate:"required"`
}

// RejectApplication handles PATCH /admin/applications/:id/reject
func (h *Handler) RejectApplication(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req rejectRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	app, err := h.Applications.Reject(c.Request().Context(), id, req.RejectedReason)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, app)
}
