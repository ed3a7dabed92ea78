package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListPayments(ctx context.Context, filter ListFilter) ([]*Payment, error)
	ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*Payment, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	PropertyID uuid.UUID
	TenantID   uuid.UUID
	Amount     decimal.Decimal
	Currency   string
	Date       time.Time
	Reference  string
}

type ListFilter struct {
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Payment, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive, got %s", params.Amount)
	}

	p := &Payment{
		PropertyID: params.PropertyID,
		TenantID:   params.TenantID,
		Amount:     params.Amount,
		Currency:   params.Currency,
		Date:       params.Date,
		Reference:  params.Reference,
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// CreateBatch records a set of imported payments, skipping none: a single
// failure aborts the batch so the caller can retry the import wholesale.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Payment, error) {
	payments := make([]*Payment, 0, len(params))

	for i, p := range params {
		created, err := s.Create(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("payment %d of %d: %w", i+1, len(params), err)
		}

		payments = append(payments, created)
	}

	return payments, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, filter)
}
