package service

import (
	"context"
	"fmt"
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

// Payment provider statuses accepted by the webhook
const (
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
	PaymentExpired = "Expired"
)

// CreateDonationInput is the body of POST /donations
type CreateDonationInput struct {
	ProjectID       uint    `json:"project_id" validate:"required"`
	FiatAmount      *string `json:"fiat_amount" validate:"omitempty,numeric"`
	FiatCurrency    *string `json:"fiat_currency" validate:"omitempty,max=10"`
	CoinAmount      string  `json:"coin_amount" validate:"required,numeric"`
	CoinType        string  `json:"coin_type" validate:"omitempty,max=10"`
	ConversionRate  *string `json:"conversion_rate" validate:"omitempty,numeric"`
	TransactionHash string  `json:"transaction_hash" validate:"required,max=255"`
	IsAnonymous     bool    `json:"is_anonymous"`
}

// PaymentWebhookInput is the body of POST /webhooks/payments
type PaymentWebhookInput struct {
	OrderID    string `json:"order_id"`
	DonationID uint   `json:"donation_id" validate:"required"`
	Status     string `json:"status" validate:"required"`
}

// DonationView is a donation as shown to clients; anonymous donors are hidden
type DonationView struct {
	ID              uint                 `json:"donation_id"`
	UserID          *uint                `json:"user_id"`
	ProjectID       uint                 `json:"project_id"`
	FiatAmount      *string              `json:"fiat_amount"`
	FiatCurrency    *string              `json:"fiat_currency"`
	CoinAmount      string               `json:"coin_amount"`
	CoinType        string               `json:"coin_type"`
	ConversionRate  *string              `json:"conversion_rate"`
	TransactionHash string               `json:"transaction_hash"`
	DonationDate    time.Time            `json:"donation_date"`
	IsAnonymous     bool                 `json:"is_anonymous"`
	Status          model.DonationStatus `json:"status"`
	ProjectTitle    string               `json:"project_title,omitempty"`
}

// NewDonationView hides the donor of anonymous donations
func NewDonationView(d *model.Donation) DonationView {
	v := DonationView{
		ID:              d.ID,
		UserID:          d.VisibleUserID(),
		ProjectID:       d.ProjectID,
		FiatAmount:      d.FiatAmount,
		FiatCurrency:    d.FiatCurrency,
		CoinAmount:      d.CoinAmount,
		CoinType:        d.CoinType,
		ConversionRate:  d.ConversionRate,
		TransactionHash: d.TransactionHash,
		DonationDate:    d.DonationDate,
		IsAnonymous:     d.IsAnonymous,
		Status:          d.Status,
	}
	if d.Project != nil {
		v.ProjectTitle = d.Project.Title
	}
	return v
}

// Certificate is the donation receipt
type Certificate struct {
	CertificateNumber string       `json:"certificate_number"`
	Donation          DonationView `json:"donation"`
	IssuedAt          time.Time    `json:"issued_at"`
}

// DonationPage is one page of a donation listing
type DonationPage struct {
	Items []DonationView `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type DonationService struct {
	stores repository.Stores
	tx     repository.Transactor
	log    *zap.Logger
	now    func() time.Time
}

func NewDonationService(stores repository.Stores, tx repository.Transactor, log *zap.Logger) *DonationService {
	return &DonationService{stores: stores, tx: tx, log: log, now: time.Now}
}

// Create records a Pending donation from userID (nil for guests)
func (s *DonationService) Create(ctx context.Context, userID *uint, in CreateDonationInput) (*model.Donation, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(in.CoinAmount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, apperror.Validation("coin_amount must be greater than zero")
	}
	hash := strings.TrimSpace(in.TransactionHash)
	if hash == "" {
		return nil, apperror.Validation("transaction_hash is required")
	}

	project, err := s.stores.Projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}

	coin := strings.TrimSpace(in.CoinType)
	if coin == "" {
		coin = model.CoinUSDC
	}

	d := &model.Donation{
		UserID:          userID,
		ProjectID:       in.ProjectID,
		FiatAmount:      trimmed(in.FiatAmount),
		FiatCurrency:    trimmed(in.FiatCurrency),
		CoinAmount:      strings.TrimSpace(in.CoinAmount),
		CoinType:        coin,
		ConversionRate:  trimmed(in.ConversionRate),
		TransactionHash: hash,
		IsAnonymous:     in.IsAnonymous,
		Status:          model.DonationPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.stores.Donations.Create(ctx, d); err != nil {
		return nil, err
	}

	prometheus.RecordDonation(string(d.Status))
	s.log.Info("Donation created",
		zap.Uint("donation_id", d.ID),
		zap.Uint("project_id", d.ProjectID),
		zap.String("coin_amount", d.CoinAmount))
	return d, nil
}

func (s *DonationService) Get(ctx context.Context, donationID uint) (*model.Donation, error) {
	d, err := s.stores.Donations.FindByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("donation not found")
	}
	return d, nil
}

// GetForOrg returns a donation only when it went to one of orgID's projects
func (s *DonationService) GetForOrg(ctx context.Context, orgID, donationID uint) (*model.Donation, error) {
	d, err := s.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Project == nil || d.Project.OrgID == nil || *d.Project.OrgID != orgID {
		return nil, apperror.NotFound("donation not found")
	}
	return d, nil
}

func (s *DonationService) List(ctx context.Context, f repository.DonationFilter) (*DonationPage, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	items, total, err := s.stores.Donations.List(ctx, f)
	if err != nil {
		return nil, err
	}
	views := make([]DonationView, 0, len(items))
	for i := range items {
		views = append(views, NewDonationView(&items[i]))
	}
	return &DonationPage{Items: views, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

// Certificate issues the receipt for a confirmed donation
func (s *DonationService) Certificate(ctx context.Context, donationID uint) (*Certificate, error) {
	d, err := s.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DonationConfirmed {
		return nil, apperror.InvalidState("certificates are issued for confirmed donations only")
	}
	return &Certificate{
		CertificateNumber: fmt.Sprintf("CERT-%d", d.ID),
		Donation:          NewDonationView(d),
		IssuedAt:          s.now(),
	}, nil
}

// TotalByProject sums the confirmed coin amount raised by a project
func (s *DonationService) TotalByProject(ctx context.Context, projectID uint) (string, error) {
	return s.stores.Donations.SumConfirmedByProject(ctx, projectID)
}

// ApplyPayment applies a payment provider callback. Paid confirms the
// donation and credits the project in the same transaction; Failed and
// Expired fail it. Only Pending donations move.
func (s *DonationService) ApplyPayment(ctx context.Context, in PaymentWebhookInput) (*model.Donation, error) {
	var next model.DonationStatus
	switch in.Status {
	case PaymentPaid:
		next = model.DonationConfirmed
	case PaymentFailed, PaymentExpired:
		next = model.DonationFailed
	default:
		return nil, apperror.Validation("unknown payment status: " + in.Status)
	}

	d, err := s.Get(ctx, in.DonationID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DonationPending {
		return nil, apperror.InvalidState("only Pending donations can change payment status")
	}

	defer prometheus.TrackDBOperation("payment_tx")(time.Now())
	err = s.tx.WithinTx(ctx, func(st repository.Stores) error {
		if err := st.Donations.UpdateStatus(ctx, d.ID, model.DonationPending, next); err != nil {
			return err
		}
		if next == model.DonationConfirmed {
			return st.Projects.IncrementRaised(ctx, d.ProjectID, d.CoinAmount)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Payment update rolled back", zap.Uint("donation_id", d.ID), zap.Error(err))
		return nil, err
	}

	d.Status = next
	prometheus.RecordDonation(string(next))
	s.log.Info("Donation payment applied",
		zap.Uint("donation_id", d.ID),
		zap.String("order_id", in.OrderID),
		zap.String("status", string(next)))
	return d, nil
}
