package service

import (
	"context"
	"strings"
	"time"

	"donation-service/internal/apperror"
	"donation-service/internal/model"
	"donation-service/internal/repository"
	"donation-service/prometheus"

	"go.uber.org/zap"
)

// CreateOrganizationInput is the body of POST /organizations
type CreateOrganizationInput struct {
	Name               string  `json:"name" validate:"required,max=255"`
	RegistrationNumber *string `json:"registration_number" validate:"omitempty,max=100"`
	Description        *string `json:"description"`
	LogoURL            *string `json:"logo_url" validate:"omitempty,max=255"`
	WalletAddress      *string `json:"wallet_address" validate:"omitempty,max=100"`
	ContactInfo        *string `json:"contact_info" validate:"omitempty,max=255"`
	PlanType           *string `json:"plan_type" validate:"omitempty,oneof=FREE PLUS"`
}

// UpdateOrganizationInput is the body of PATCH /organizations/:id
type UpdateOrganizationInput struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,max=255"`
	ContactInfo *string `json:"contact_info" validate:"omitempty,max=255"`
}

// Dashboard is the organization home view
type Dashboard struct {
	Organization *model.Organization `json:"organization"`
	PlanType     model.PlanType      `json:"plan_type"`
	ProjectCount int64               `json:"project_count"`
	MemberCount  int                 `json:"member_count"`
}

type OrganizationService struct {
	stores repository.Stores
	log    *zap.Logger
}

func NewOrganizationService(stores repository.Stores, log *zap.Logger) *OrganizationService {
	return &OrganizationService{stores: stores, log: log}
}

// Create registers an organization outside the application workflow.
// It starts PENDING until a platform admin approves it.
func (s *OrganizationService) Create(ctx context.Context, in CreateOrganizationInput) (*model.Organization, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	plan := model.PlanFree
	if in.PlanType != nil {
		plan = model.PlanType(*in.PlanType)
		if plan != model.PlanFree && plan != model.PlanPlus {
			return nil, apperror.Validation("plan_type must be FREE or PLUS")
		}
	}

	org := &model.Organization{
		Name:               name,
		RegistrationNumber: trimmed(in.RegistrationNumber),
		Description:        trimmed(in.Description),
		LogoURL:            trimmed(in.LogoURL),
		WalletAddress:      trimmed(in.WalletAddress),
		ContactInfo:        trimmed(in.ContactInfo),
		PlanType:           plan,
		Status:             model.OrgStatusPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.stores.Organizations.Create(ctx, org); err != nil {
		return nil, err
	}

	prometheus.RecordOrgOperation("create")
	s.log.Info("Organization created", zap.Uint("org_id", org.ID), zap.String("name", org.Name))
	return org, nil
}

func (s *OrganizationService) Get(ctx context.Context, orgID uint) (*model.Organization, error) {
	org, err := s.stores.Organizations.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperror.NotFound("organization not found")
	}
	return org, nil
}

// List returns organizations with PLUS plans first
func (s *OrganizationService) List(ctx context.Context, status string) ([]model.Organization, error) {
	if status == "" {
		return s.stores.Organizations.List(ctx, nil)
	}
	if !model.ValidOrgStatus(status) {
		return nil, apperror.Validation("unknown organization status: " + status)
	}
	st := model.OrgStatus(status)
	return s.stores.Organizations.List(ctx, &st)
}

func (s *OrganizationService) UpdateProfile(ctx context.Context, orgID uint, in UpdateOrganizationInput) (*model.Organization, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = trimmed(in.Description)
	}
	if in.LogoURL != nil {
		fields["logo_url"] = trimmed(in.LogoURL)
	}
	if in.ContactInfo != nil {
		fields["contact_info"] = trimmed(in.ContactInfo)
	}
	return s.update(ctx, orgID, "update", fields)
}

// UpdateWallet sets the payout wallet; addresses are unique across organizations
func (s *OrganizationService) UpdateWallet(ctx context.Context, orgID uint, wallet string) (*model.Organization, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, apperror.Validation("wallet_address is required")
	}
	return s.update(ctx, orgID, "update_wallet", map[string]interface{}{"wallet_address": wallet})
}

// Approve marks an organization verified and lets it run campaigns
func (s *OrganizationService) Approve(ctx context.Context, orgID uint) (*model.Organization, error) {
	return s.update(ctx, orgID, "approve", map[string]interface{}{
		"status":      model.OrgStatusApproved,
		"is_verified": true,
	})
}

func (s *OrganizationService) Suspend(ctx context.Context, orgID uint) (*model.Organization, error) {
	return s.update(ctx, orgID, "suspend", map[string]interface{}{"status": model.OrgStatusSuspended})
}

func (s *OrganizationService) UpgradePlan(ctx context.Context, orgID uint) (*model.Organization, error) {
	return s.update(ctx, orgID, "upgrade", map[string]interface{}{"plan_type": model.PlanPlus})
}

func (s *OrganizationService) CancelPlan(ctx context.Context, orgID uint) (*model.Organization, error) {
	return s.update(ctx, orgID, "cancel", map[string]interface{}{"plan_type": model.PlanFree})
}

func (s *OrganizationService) update(ctx context.Context, orgID uint, op string, fields map[string]interface{}) (*model.Organization, error) {
	if len(fields) == 0 {
		return s.Get(ctx, orgID)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.stores.Organizations.Update(ctx, orgID, fields); err != nil {
		return nil, err
	}

	prometheus.RecordOrgOperation(op)
	s.log.Info("Organization updated", zap.Uint("org_id", orgID), zap.String("operation", op))
	return s.Get(ctx, orgID)
}

// Dashboard summarizes an organization for its members
func (s *OrganizationService) Dashboard(ctx context.Context, orgID uint) (*Dashboard, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	_, projects, err := s.stores.Projects.List(ctx, repository.ProjectFilter{OrgID: &orgID, Page: repository.Page{Limit: 1}})
	if err != nil {
		return nil, err
	}
	members, err := s.stores.Memberships.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Organization: org,
		PlanType:     org.PlanType,
		ProjectCount: projects,
		MemberCount:  len(members),
	}, nil
}

// Report aggregates donations per project. PLUS organizations only.
func (s *OrganizationService) Report(ctx context.Context, orgID uint) ([]repository.ProjectDonationSummary, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.IsPlusPlan() {
		return nil, apperror.Forbidden("Plus plan required")
	}
	return s.stores.Donations.SummarizeByOrg(ctx, orgID)
}

// RequireAdmin checks that userID administers orgID
func (s *OrganizationService) RequireAdmin(ctx context.Context, orgID, userID uint) error {
	m, err := s.stores.Memberships.FindByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if m == nil || !m.HasRole(model.MemberRoleAdmin) {
		return apperror.Forbidden("organization admin role required")
	}
	return nil
}
