package handler

import (
	"net/http"

	"donation-service/internal/apperror"
	"donation-service/internal/middleware"
	"donation-service/internal/model"
	"donation-service/internal/repository"
	"donation-service/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateDonation handles POST /donations
func (h *Handler) CreateDonation(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.CreateDonationInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	d, err := h.Donations.Create(c.Request().Context(), &userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, service.NewDonationView(d))
}

func donationFilter(c echo.Context) (repository.DonationFilter, error) {
	f := repository.DonationFilter{
		Page: repository.Page{Page: queryInt(c, "page"), Limit: queryInt(c, "limit")},
	}
	var err error
	if f.ProjectID, err = queryUint(c, "project_id"); err != nil {
		return f, err
	}
	if s := queryString(c, "status"); s != nil {
		st := model.DonationStatus(*s)
		f.Status = &st
	}
	return f, nil
}

// ListDonations handles GET /donations and GET /admin/donations
func (h *Handler) ListDonations(c echo.Context) error {
	f, err := donationFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Donations.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, page)
}

// GetDonation handles GET /donations/:id
func (h *Handler) GetDonation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.Donations.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, service.NewDonationView(d))
}

// DonationCertificate handles GET /donations/:id/certificate
func (h *Handler) DonationCertificate(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.Donations.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if (d.UserID == nil || *d.UserID != userID) && !middleware.IsPlatformAdmin(c) {
		return respondError(c, apperror.Forbidden("certificate belongs to another donor"))
	}
	cert, err := h.Donations.Certificate(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, cert)
}

// UserDonations handles GET /donations/user/:userId
func (h *Handler) UserDonations(c echo.Context) error {
	callerID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if userID != callerID && !middleware.IsPlatformAdmin(c) {
		return respondError(c, apperror.Forbidden("cannot view another user's donations"))
	}
	return h.listForUser(c, userID)
}

// MyDonations handles GET /me/donations
func (h *Handler) MyDonations(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.listForUser(c, userID)
}

func (h *Handler) listForUser(c echo.Context, userID uint) error {
	page, err := h.Donations.List(c.Request().Context(), repository.DonationFilter{
		UserID: &userID,
		Page:   repository.Page{Page: queryInt(c, "page"), Limit: queryInt(c, "limit")},
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, page)
}

// ProjectDonations handles GET /donations/project/:projectId
func (h *Handler) ProjectDonations(c echo.Context) error {
	projectID, err := paramID(c, "projectId")
	if err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()
	page, err := h.Donations.List(ctx, repository.DonationFilter{
		ProjectID: &projectID,
		Page:      repository.Page{Page: queryInt(c, "page"), Limit: queryInt(c, "limit")},
	})
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.Donations.TotalByProject(ctx, projectID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"donations": page, "total_confirmed": total})
}

// PaymentWebhook handles POST /webhooks/payments
func (h *Handler) PaymentWebhook(c echo.Context) error {
	var req service.PaymentWebhookInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	d, err := h.Donations.ApplyPayment(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, service.NewDonationView(d))
}
