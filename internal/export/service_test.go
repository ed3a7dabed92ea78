package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jmcortes/habita/internal/expense"
	"github.com/jmcortes/habita/internal/ledger"
	"github.com/jmcortes/habita/internal/payment"
)

type stubPayments struct {
	payments []*payment.Payment
}

func (s *stubPayments) ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*payment.Payment, error) {
	return s.payments, nil
}

type stubExpenses struct {
	expenses []*expense.Expense
}

func (s *stubExpenses) ListByPropertyAndRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*expense.Expense, error) {
	return s.expenses, nil
}

func TestBuildWorkbook(t *testing.T) {
	day5 := time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC)
	day10 := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	ledgerSvc := ledger.NewService(
		&stubPayments{payments: []*payment.Payment{{
			ID:     uuid.New(),
			Amount: decimal.NewFromInt(500),
			Date:   day5,
		}}},
		&stubExpenses{expenses: []*expense.Expense{{
			ID:       uuid.New(),
			Amount:   decimal.NewFromInt(200),
			Category: "maintenance",
			Date:     day10,
		}}},
		5*time.Second,
	)

	svc := NewService(ledgerSvc)

	got, err := svc.BuildWorkbook(context.Background(), uuid.New(), ledger.Window{
		Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	f, err := excelize.OpenReader(bytes.NewReader(got))
	require.NoError(t, err)

	defer f.Close()

	netBalance, err := f.GetCellValue(summarySheet, "B9")
	require.NoError(t, err)
	assert.Equal(t, "300", netBalance)

	firstKind, err := f.GetCellValue(eventsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "income", firstKind)

	lastBalance, err := f.GetCellValue(eventsSheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "300", lastBalance)
}
