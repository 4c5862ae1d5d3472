// Package agreement persists agreements created through the bot and lets
// managers approve or block them.
package agreement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/internal/currency"
)

var (
	// ErrNotFound is returned for unknown agreement ids.
	ErrNotFound = errors.New("agreement: not found")
	// ErrNotNew is returned when a status change is requested for a reviewed agreement.
	ErrNotNew = errors.New("agreement: already reviewed")
)

// Status of an agreement in the review lifecycle.
type Status string

const (
	StatusNew     Status = "NEW"
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

// Agreement is a client's contract for a product.
type Agreement struct {
	ID           int64           `db:"id" json:"id"`
	ClientChatID int64           `db:"client_chat_id" json:"client_chat_id"`
	ProductID    int64           `db:"product_id" json:"product_id"`
	ProductName  string          `db:"product_name" json:"product_name"`
	Currency     currency.Code   `db:"currency_code" json:"currency_code"`
	Sum          decimal.Decimal `db:"sum" json:"sum"`
	InterestRate decimal.Decimal `db:"interest_rate" json:"interest_rate"`
	PeriodMonths int             `db:"period_months" json:"period_months"`
	Status       Status          `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Store is the persistence contract of the service.
type Store interface {
	Create(ctx context.Context, a Agreement) (Agreement, error)
	ListByStatus(ctx context.Context, status Status) ([]Agreement, error)
	Get(ctx context.Context, id int64) (Agreement, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
}

// Service implements agreement finalization and manager review.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds a service over store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create stores a new agreement awaiting manager approval.
func (s *Service) Create(ctx context.Context, a Agreement) (Agreement, error) {
	a.Status = StatusNew
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	created, err := s.store.Create(ctx, a)
	if err != nil {
		logger.Error(ctx, "service.agreements", "agreement.create",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return Agreement{}, fmt.Errorf("create agreement: %w", err)
	}
	logger.Info(ctx, "service.agreements", "agreement.create",
		slog.String("status", "ok"),
		slog.Int64("agreement_id", created.ID),
		slog.Int64("product_id", created.ProductID),
		slog.String("currency", string(created.Currency)),
	)
	return created, nil
}

// NewAgreements lists agreements waiting for review, oldest first.
func (s *Service) NewAgreements(ctx context.Context) ([]Agreement, error) {
	return s.store.ListByStatus(ctx, StatusNew)
}

// Get returns one agreement.
func (s *Service) Get(ctx context.Context, id int64) (Agreement, error) {
	return s.store.Get(ctx, id)
}

// Confirm activates a new agreement.
func (s *Service) Confirm(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusActive)
}

// Block rejects a new agreement.
func (s *Service) Block(ctx context.Context, id int64) error {
	return s.transition(ctx, id, StatusBlocked)
}

func (s *Service) transition(ctx context.Context, id int64, to Status) error {
	err := s.store.UpdateStatus(ctx, id, StatusNew, to)
	status := "ok"
	if err != nil {
		status = "fail"
	}
	logger.Info(ctx, "service.agreements", "agreement.review",
		slog.String("status", status),
		slog.Int64("agreement_id", id),
		slog.String("to", string(to)),
	)
	return err
}
