package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"donation-service/internal/apperror"
	"donation-service/internal/model"
	"donation-service/internal/repository"
	"donation-service/prometheus"

	"go.uber.org/zap"
)

// CreateProjectInput is the body of POST /org/projects
type CreateProjectInput struct {
	Nation              string     `json:"nation" validate:"required,max=50"`
	Title               string     `json:"title" validate:"required,max=255"`
	ThumbnailURL        *string    `json:"thumbnail_url" validate:"omitempty,max=255"`
	ShortDescription    *string    `json:"short_description" validate:"omitempty,max=500"`
	DetailedDescription *string    `json:"detailed_description"`
	GoalAmount          *string    `json:"goal_amount" validate:"omitempty,numeric"`
	Status              *string    `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE COMPLETED CLOSED"`
	StartDate           *time.Time `json:"start_date"`
}

// UpdateProjectInput is the body of PATCH /org/projects/:id
type UpdateProjectInput struct {
	Title               *string `json:"title" validate:"omitempty,max=255"`
	ThumbnailURL        *string `json:"thumbnail_url" validate:"omitempty,max=255"`
	ShortDescription    *string `json:"short_description" validate:"omitempty,max=500"`
	DetailedDescription *string `json:"detailed_description"`
	GoalAmount          *string `json:"goal_amount" validate:"omitempty,numeric"`
	Status              *string `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE COMPLETED CLOSED"`
}

// ProjectDetail adds funding progress to a project
type ProjectDetail struct {
	*model.Project
	FundingPercentage *float64 `json:"funding_percentage"`
	GoalReached       bool     `json:"goal_reached"`
}

// ProjectPage is one page of a project listing
type ProjectPage struct {
	Items []model.Project `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProjectService struct {
	stores repository.Stores
	log    *zap.Logger
}

func NewProjectService(stores repository.Stores, log *zap.Logger) *ProjectService {
	return &ProjectService{stores: stores, log: log}
}

func (s *ProjectService) List(ctx context.Context, f repository.ProjectFilter) (*ProjectPage, error) {
	if f.Status != nil && !model.ValidProjectStatus(string(*f.Status)) {
		return nil, apperror.Validation("unknown project status: " + string(*f.Status))
	}
	defer prometheus.TrackDBOperation("query")(time.Now())
	items, total, err := s.stores.Projects.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ProjectPage{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID uint) (*ProjectDetail, error) {
	p, err := s.stores.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("project not found")
	}
	return &ProjectDetail{
		Project:           p,
		FundingPercentage: p.FundingPercentage(),
		GoalReached:       p.IsGoalReached(),
	}, nil
}

// Create starts a campaign for orgID. Only APPROVED organizations may
// fundraise; new projects default to DRAFT.
func (s *ProjectService) Create(ctx context.Context, orgID uint, in CreateProjectInput) (*model.Project, error) {
	org, err := s.stores.Organizations.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.NotFound("organization not found")
	}
	if !org.IsApproved() {
		return nil, apperror.InvalidState("organization must be APPROVED to create projects")
	}

	title := strings.TrimSpace(in.Title)
	nation := strings.TrimSpace(in.Nation)
	if title == "" || nation == "" {
		return nil, apperror.Validation("title and nation are required")
	}
	goal, err := parseGoal(in.GoalAmount)
	if err != nil {
		return nil, err
	}
	status := model.ProjectDraft
	if in.Status != nil {
		if !model.ValidProjectStatus(*in.Status) {
			return nil, apperror.Validation("unknown project status: " + *in.Status)
		}
		status = model.ProjectStatus(*in.Status)
	}

	p := &model.Project{
		OrgID:               &orgID,
		Nation:              nation,
		Title:               title,
		ThumbnailURL:        trimmed(in.ThumbnailURL),
		ShortDescription:    trimmed(in.ShortDescription),
		DetailedDescription: trimmed(in.DetailedDescription),
		GoalAmount:          goal,
		CurrentRaisedUSDC:   "0",
		Status:              status,
		StartDate:           in.StartDate,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.stores.Projects.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("Project created", zap.Uint("project_id", p.ID), zap.Uint("org_id", orgID))
	return p, nil
}

// Update edits a project owned by orgID
func (s *ProjectService) Update(ctx context.Context, orgID, projectID uint, in UpdateProjectInput) (*ProjectDetail, error) {
	current, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if current.OrgID == nil || *current.OrgID != orgID {
		return nil, apperror.NotFound("project not found")
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.Validation("title must not be empty")
		}
		fields["title"] = title
	}
	if in.ThumbnailURL != nil {
		fields["thumbnail_url"] = trimmed(in.ThumbnailURL)
	}
	if in.ShortDescription != nil {
		fields["short_description"] = trimmed(in.ShortDescription)
	}
	if in.DetailedDescription != nil {
		fields["detailed_description"] = trimmed(in.DetailedDescription)
	}
	if in.GoalAmount != nil {
		goal, err := parseGoal(in.GoalAmount)
		if err != nil {
			return nil, err
		}
		fields["goal_amount"] = goal
	}
	if in.Status != nil {
		if !model.ValidProjectStatus(*in.Status) {
			return nil, apperror.Validation("unknown project status: " + *in.Status)
		}
		fields["status"] = model.ProjectStatus(*in.Status)
	}
	if len(fields) == 0 {
		return current, nil
	}

	if err := s.stores.Projects.Update(ctx, projectID, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, projectID)
}

func parseGoal(goal *string) (*string, error) {
	g := trimmed(goal)
	if g == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*g, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, apperror.Validation("goal_amount must be a non-negative number")
	}
	return g, nil
}
