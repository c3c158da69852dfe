package service

import (
	"context"
	"testing"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrganizationCreate_DefaultsToPendingFree(t *testing.T) {
	svc := NewOrganizationService(newMemDB().stores(), zap.NewNop())

	org, err := svc.Create(context.Background(), CreateOrganizationInput{Name: "Helpers Inc"})

	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusPending, org.Status)
	assert.Equal(t, model.PlanFree, org.PlanType)
}

func TestOrganizationList_PlusFirst(t *testing.T) {
	db := newMemDB()
	svc := NewOrganizationService(db.stores(), zap.NewNop())
	ctx := context.Background()
	plus := "PLUS"

	_, err := svc.Create(ctx, CreateOrganizationInput{Name: "Free"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateOrganizationInput{Name: "Plus", PlanType: &plus})
	require.NoError(t, err)

	orgs, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Plus", orgs[0].Name)
}

func TestOrganizationAdminTransitions(t *testing.T) {
	svc := NewOrganizationService(newMemDB().stores(), zap.NewNop())
	ctx := context.Background()
	org, err := svc.Create(ctx, CreateOrganizationInput{Name: "Helpers Inc"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusApproved, approved.Status)
	assert.True(t, approved.IsVerified)

	suspended, err := svc.Suspend(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusSuspended, suspended.Status)

	_, err = svc.Suspend(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestOrganizationWallet_UniqueAcrossOrganizations(t *testing.T) {
	svc := NewOrganizationService(newMemDB().stores(), zap.NewNop())
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateOrganizationInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateOrganizationInput{Name: "B"})
	require.NoError(t, err)

	_, err = svc.UpdateWallet(ctx, a.ID, "0xabc")
	require.NoError(t, err)

	_, err = svc.UpdateWallet(ctx, b.ID, "0xabc")
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.UpdateWallet(ctx, b.ID, "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestOrganizationReport_RequiresPlus(t *testing.T) {
	db := newMemDB()
	svc := NewOrganizationService(db.stores(), zap.NewNop())
	ctx := context.Background()
	org, err := svc.Create(ctx, CreateOrganizationInput{Name: "Helpers Inc"})
	require.NoError(t, err)
	seedProject(t, db, org.ID)

	_, err = svc.Report(ctx, org.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.UpgradePlan(ctx, org.ID)
	require.NoError(t, err)

	rows, err := svc.Report(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Clean Water", rows[0].Title)

	cancelled, err := svc.CancelPlan(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, cancelled.PlanType)
}

func TestOrganizationRequireAdmin(t *testing.T) {
	db := newMemDB()
	svc := NewOrganizationService(db.stores(), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, db.stores().Memberships.Create(ctx, &model.Membership{OrgID: 1, UserID: 7, Role: model.MemberRoleAdmin}))
	require.NoError(t, db.stores().Memberships.Create(ctx, &model.Membership{OrgID: 1, UserID: 8, Role: model.MemberRoleViewer}))

	assert.NoError(t, svc.RequireAdmin(ctx, 1, 7))
	assert.True(t, apperror.Is(svc.RequireAdmin(ctx, 1, 8), apperror.KindForbidden))
	assert.True(t, apperror.Is(svc.RequireAdmin(ctx, 2, 7), apperror.KindForbidden))
}

func TestOrganizationDashboard(t *testing.T) {
	db := newMemDB()
	svc := NewOrganizationService(db.stores(), zap.NewNop())
	ctx := context.Background()
	org, err := svc.Create(ctx, CreateOrganizationInput{Name: "Helpers Inc"})
	require.NoError(t, err)
	seedProject(t, db, org.ID)
	require.NoError(t, db.stores().Memberships.Create(ctx, &model.Membership{OrgID: org.ID, UserID: 7, Role: model.MemberRoleAdmin}))

	dash, err := svc.Dashboard(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.ProjectCount)
	assert.Equal(t, 1, dash.MemberCount)
	assert.Equal(t, model.PlanFree, dash.PlanType)
}
