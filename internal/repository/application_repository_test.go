package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"donation-service/internal/apperror"
	"donation-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationRepository_FindByIDMissingReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "org_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app, err := NewApplicationRepository(db).FindByID(context.Background(), 99)

	require.NoError(t, err)
	assert.Nil(t, app)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "org_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "org_name", "status"}).
			AddRow(1, 7, "Helpers Inc", "PENDING"))

	app, err := NewApplicationRepository(db).FindByID(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, uint(7), app.UserID)
	assert.Equal(t, "Helpers Inc", app.OrgName)
	assert.True(t, app.IsPending())
}

func TestApplicationRepository_CreateDuplicatePendingIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "org_applications"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uniq_org_applications_pending_user"})
	mock.ExpectRollback()

	err := NewApplicationRepository(db).Create(context.Background(), &model.Application{
		UserID:  7,
		OrgName: "Helpers Inc",
		Status:  model.ApplicationPending,
	})

	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_UpdateStatusOnlyTouchesPending(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "org_applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := NewApplicationRepository(db).UpdateStatus(context.Background(), 1, model.ApplicationApproved, nil, time.Now())

	assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOrganizationWhenMembershipInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "org_members"`).
		WillReturnError(errors.New("insert org_members: connection reset"))
	mock.ExpectRollback()

	userID := uint(7)
	err := NewTransactor(db).WithinTx(context.Background(), func(s Stores) error {
		org := &model.Organization{
			Name:     "Helpers Inc",
			UserID:   &userID,
			PlanType: model.PlanFree,
			Status:   model.OrgStatusApproved,
		}
		if err := s.Organizations.Create(context.Background(), org); err != nil {
			return err
		}
		return s.Memberships.Create(context.Background(), &model.Membership{
			OrgID:  org.ID,
			UserID: userID,
			Role:   model.MemberRoleAdmin,
		})
	})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_CommitsAllThreeWrites(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "org_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`UPDATE "org_applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := NewTransactor(db).WithinTx(ctx, func(s Stores) error {
		org := &model.Organization{Name: "Helpers Inc", PlanType: model.PlanFree, Status: model.OrgStatusApproved}
		if err := s.Organizations.Create(ctx, org); err != nil {
			return err
		}
		if err := s.Memberships.Create(ctx, &model.Membership{OrgID: org.ID, UserID: 7, Role: model.MemberRoleAdmin}); err != nil {
			return err
		}
		return s.Applications.UpdateStatus(ctx, 1, model.ApplicationApproved, nil, time.Now())
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
