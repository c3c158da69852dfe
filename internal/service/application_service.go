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

// SubmitApplicationInput is the applicant-supplied part of an application
type SubmitApplicationInput struct {
	OrgName            string  `json:"org_name" validate:"required,max=255"`
	RegistrationNumber *string `json:"registration_number" validate:"omitempty,max=100"`
	RegistrationDocURL *string `json:"registration_doc_url" validate:"omitempty,max=255"`
	ContactName        *string `json:"contact_name" validate:"omitempty,max=100"`
	ContactPhone       *string `json:"contact_phone" validate:"omitempty,max=20"`
	ContactEmail       *string `json:"contact_email" validate:"omitempty,email,max=255"`
	Description        *string `json:"description"`
}

// ApprovalResult is returned by a successful approval
type ApprovalResult struct {
	Application  *model.Application  `json:"application"`
	Organization *model.Organization `json:"organization"`
}

// ApplicationService runs the organization onboarding workflow:
// PENDING -> APPROVED | REJECTED, both terminal.
type ApplicationService struct {
	stores repository.Stores
	tx     repository.Transactor
	log    *zap.Logger
	now    func() time.Time
}

func NewApplicationService(stores repository.Stores, tx repository.Transactor, log *zap.Logger) *ApplicationService {
	return &ApplicationService{stores: stores, tx: tx, log: log, now: time.Now}
}

// Submit records a new PENDING application for submitterID. A submitter
// may only have one application under review at a time.
func (s *ApplicationService) Submit(ctx context.Context, submitterID uint, in SubmitApplicationInput) (*model.Application, error) {
	orgName := strings.TrimSpace(in.OrgName)
	if orgName == "" {
		return nil, recordFailure("submit", apperror.Validation("org_name is required"))
	}

	existing, err := s.stores.Applications.FindByUser(ctx, submitterID)
	if err != nil {
		return nil, recordFailure("submit", err)
	}
	for i := range existing {
		if existing[i].IsPending() {
			return nil, recordFailure("submit", apperror.Conflict("an application is already under review"))
		}
	}

	app := &model.Application{
		UserID:             submitterID,
		OrgName:            orgName,
		RegistrationNumber: trimmed(in.RegistrationNumber),
		RegistrationDocURL: trimmed(in.RegistrationDocURL),
		ContactName:        trimmed(in.ContactName),
		ContactPhone:       trimmed(in.ContactPhone),
		ContactEmail:       trimmed(in.ContactEmail),
		Description:        trimmed(in.Description),
		Status:             model.ApplicationPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.stores.Applications.Create(ctx, app); err != nil {
		return nil, recordFailure("submit", err)
	}

	prometheus.RecordApplicationTransition("submitted")
	s.log.Info("Application submitted",
		zap.Uint("application_id", app.ID),
		zap.Uint("user_id", submitterID),
		zap.String("org_name", app.OrgName))
	return app, nil
}

// Approve turns a PENDING application into an APPROVED organization whose
// submitter is its first ADMIN. The organization insert, the membership
// insert and the status update commit together or not at all.
func (s *ApplicationService) Approve(ctx context.Context, applicationID uint) (*ApprovalResult, error) {
	app, err := s.pending(ctx, applicationID, "approve")
	if err != nil {
		return nil, err
	}

	reviewedAt := s.now()
	ownerID := app.UserID
	org := &model.Organization{
		Name:               app.OrgName,
		RegistrationNumber: app.RegistrationNumber,
		PlanType:           model.PlanFree,
		Status:             model.OrgStatusApproved,
		UserID:             &ownerID,
	}

	defer prometheus.TrackDBOperation("approve_tx")(time.Now())
	err = s.tx.WithinTx(ctx, func(st repository.Stores) error {
		if err := st.Organizations.Create(ctx, org); err != nil {
			return err
		}
		membership := &model.Membership{
			OrgID:  org.ID,
			UserID: app.UserID,
			Role:   model.MemberRoleAdmin,
		}
		if err := st.Memberships.Create(ctx, membership); err != nil {
			return err
		}
		return st.Applications.UpdateStatus(ctx, app.ID, model.ApplicationApproved, nil, reviewedAt)
	})
	if err != nil {
		s.log.Error("Application approval rolled back",
			zap.Uint("application_id", applicationID),
			zap.Error(err))
		return nil, recordFailure("approve", err)
	}

	app.Status = model.ApplicationApproved
	app.ReviewedAt = &reviewedAt

	prometheus.RecordApplicationTransition("approved")
	s.log.Info("Application approved",
		zap.Uint("application_id", app.ID),
		zap.Uint("org_id", org.ID),
		zap.Uint("user_id", app.UserID))
	return &ApprovalResult{Application: app, Organization: org}, nil
}

// Reject closes a PENDING application with a reason
func (s *ApplicationService) Reject(ctx context.Context, applicationID uint, reason string) (*model.Application, error) {
	app, err := s.pending(ctx, applicationID, "reject")
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, recordFailure("reject", apperror.Validation("rejected_reason is required"))
	}

	reviewedAt := s.now()
	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.stores.Applications.UpdateStatus(ctx, app.ID, model.ApplicationRejected, &reason, reviewedAt); err != nil {
		return nil, recordFailure("reject", err)
	}

	app.Status = model.ApplicationRejected
	app.RejectedReason = &reason
	app.ReviewedAt = &reviewedAt

	prometheus.RecordApplicationTransition("rejected")
	s.log.Info("Application rejected",
		zap.Uint("application_id", app.ID),
		zap.String("reason", reason))
	return app, nil
}

// pending loads an application and requires it to still be under review
func (s *ApplicationService) pending(ctx context.Context, applicationID uint, op string) (*model.Application, error) {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, recordFailure(op, err)
	}
	if !app.IsPending() {
		var msg string
		switch op {
		case "approve":
			msg = "only PENDING applications may be approved"
		default:
			msg = "only PENDING applications may be rejected"
		}
		return nil, recordFailure(op, apperror.InvalidState(msg))
	}
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, applicationID uint) (*model.Application, error) {
	app, err := s.stores.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperror.NotFound("application not found")
	}
	return app, nil
}

// ListMine returns the submitter's applications, newest first
func (s *ApplicationService) ListMine(ctx context.Context, submitterID uint) ([]model.Application, error) {
	return s.stores.Applications.FindByUser(ctx, submitterID)
}

// List returns every application, optionally narrowed to one status
func (s *ApplicationService) List(ctx context.Context, status string) ([]model.Application, error) {
	if status == "" {
		return s.stores.Applications.FindAll(ctx, nil)
	}
	if !model.ValidApplicationStatus(status) {
		return nil, apperror.Validation("unknown application status: " + status)
	}
	st := model.ApplicationStatus(status)
	return s.stores.Applications.FindAll(ctx, &st)
}
