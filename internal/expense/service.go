package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*Expense, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	PropertyID  uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Date        time.Time
}

type ListFilter struct {
	PropertyID *uuid.UUID
	Category   *string
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("expense amount must be positive, got %s", params.Amount)
	}

	e := &Expense{
		PropertyID:  params.PropertyID,
		Amount:      params.Amount,
		Currency:    params.Currency,
		Category:    params.Category,
		Description: params.Description,
		Date:        params.Date,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}
