package handler

import (
	"net/http"

	"donation-service/internal/repository"
	"donation-service/internal/service"

	"github.com/labstack/echo/v4"
)

// OrgDashboard handles GET /org/dashboard
func (h *Handler) OrgDashboard(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	dash, err := h.Organizations.Dashboard(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dash)
}

// OrgDonations handles GET /org/donations
func (h *Handler) OrgDonations(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.Donations.List(c.Request().Context(), repository.DonationFilter{
		OrgID: &orgID,
		Page:  repository.Page{Page: queryInt(c, "page"), Limit: queryInt(c, "limit")},
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, page)
}

// OrgDonation handles GET /org/donations/:id
func (h *Handler) OrgDonation(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.Donations.GetForOrg(c.Request().Context(), orgID, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, service.NewDonationView(d))
}

// OrgPlan handles GET /org/plan
func (h *Handler) OrgPlan(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.Get(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"plan_type": org.PlanType, "status": org.Status})
}

// UpgradePlan handles POST /org/plan/upgrade
func (h *Handler) UpgradePlan(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.UpgradePlan(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}

// CancelPlan handles POST /org/plan/cancel
func (h *Handler) CancelPlan(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	org, err := h.Organizations.CancelPlan(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, org)
}

// OrgReports handles GET /org/reports
func (h *Handler) OrgReports(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.Organizations.Report(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, rows)
}

// CreateOrgProject handles POST /org/projects
func (h *Handler) CreateOrgProject(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.CreateProjectInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	p, err := h.Projects.Create(c.Request().Context(), orgID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, p)
}

// UpdateOrgProject handles PATCH /org/projects/:id
func (h *Handler) UpdateOrgProject(c echo.Context) error {
	orgID, err := currentMembership(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateProjectInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	p, err := h.Projects.Update(c.Request().Context(), orgID, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, p)
}
