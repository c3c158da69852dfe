package handler

import (
	"net/http"

	"donation-service/internal/model"
	"donation-service/internal/repository"

	"github.com/labstack/echo/v4"
)

// ListProjects handles GET /projects
func (h *Handler) ListProjects(c echo.Context) error {
	f := repository.ProjectFilter{
		Nation: queryString(c, "nation"),
		Page:   repository.Page{Page: queryInt(c, "page"), Limit: queryInt(c, "limit")},
	}
	if s := queryString(c, "status"); s != nil {
		st := model.ProjectStatus(*s)
		f.Status = &st
	}
	var err error
	if f.OrgID, err = queryUint(c, "org_id"); err != nil {
		return respondError(c, err)
	}
	if f.MinGoal, err = queryFloat(c, "min_goal"); err != nil {
		return respondError(c, err)
	}
	if f.MaxGoal, err = queryFloat(c, "max_goal"); err != nil {
		return respondError(c, err)
	}

	page, err := h.Projects.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, page)
}

// GetProject handles GET /projects/:id
func (h *Handler) GetProject(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.Projects.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, p)
}
