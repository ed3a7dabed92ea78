package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/expense"
	"github.com/jmcortes/habita/internal/payment"
)

type PaymentSource interface {
	ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*payment.Payment, error)
}

type ExpenseSource interface {
	ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*expense.Expense, error)
}

// Service produces statements on demand. Repository failures are returned
// to the caller of the report request; nothing is retried here.
type Service struct {
	payments PaymentSource
	expenses ExpenseSource
	timeout  time.Duration
}

func NewService(payments PaymentSource, expenses ExpenseSource, timeout time.Duration) *Service {
	return &Service{
		payments: payments,
		expenses: expenses,
		timeout:  timeout,
	}
}

// BuildForProperty pulls the property's payments and expenses for the
// window and returns the merged statement.
func (s *Service) BuildForProperty(ctx context.Context, propertyID uuid.UUID, window Window) (*Statement, error) {
	if window.End.Before(window.Start) {
		return nil, fmt.Errorf("invalid window: end %s before start %s",
			window.End.Format(time.DateOnly), window.Start.Format(time.DateOnly))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payments, err := s.payments.ListByPropertyAndRange(ctx, propertyID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("listing payments for property %s: %w", propertyID, err)
	}

	expenses, err := s.expenses.ListByPropertyAndRange(ctx, propertyID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("listing expenses for property %s: %w", propertyID, err)
	}

	stmt := BuildStatement(payments, expenses)

	return &stmt, nil
}
