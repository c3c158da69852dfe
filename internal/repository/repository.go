package repository

import (
	"context"
	"errors"

	"donation-service/internal/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is a 1-based page request
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Stores groups the repositories that can share one transaction
type Stores struct {
	Users         UserRepository
	Applications  ApplicationRepository
	Organizations OrganizationRepository
	Memberships   MembershipRepository
	Projects      ProjectRepository
	Donations     DonationRepository
	Favorites     FavoriteRepository
	RefreshTokens RefreshTokenRepository
}

// NewStores builds every repository on top of conn
func NewStores(conn *gorm.DB) Stores {
	return Stores{
		Users:         NewUserRepository(conn),
		Applications:  NewApplicationRepository(conn),
		Organizations: NewOrganizationRepository(conn),
		Memberships:   NewMembershipRepository(conn),
		Projects:      NewProjectRepository(conn),
		Donations:     NewDonationRepository(conn),
		Favorites:     NewFavoriteRepository(conn),
		RefreshTokens: NewRefreshTokenRepository(conn),
	}
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

// isUniqueViolation reports a Postgres unique_violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// translateUnique turns a unique violation into a Conflict with msg
func translateUnique(err error, msg string) error {
	if isUniqueViolation(err) {
		return apperror.Wrap(apperror.KindConflict, msg, err)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
