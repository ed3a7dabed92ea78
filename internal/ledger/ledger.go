// Package ledger merges a property's payments and expenses into a single
// chronological statement with running balances.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/expense"
	"github.com/jmcortes/habita/internal/payment"
)

// EventKind distinguishes the two sides of the ledger.
type EventKind string

const (
	KindIncome  EventKind = "income"
	KindExpense EventKind = "expense"
)

// incomeDescription is the fixed label for payment-derived events; the raw
// bank reference never leaks into owner-facing statements.
const incomeDescription = "Payment received"

// Event is one line of a statement. Balance is the running balance after
// applying this event; it is computed per request, never stored.
type Event struct {
	Date        time.Time
	Kind        EventKind
	Amount      decimal.Decimal
	Category    string
	Description string
	Balance     decimal.Decimal
}

// Statement is the ordered event list plus aggregate totals for the window.
type Statement struct {
	Events        []Event
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetBalance    decimal.Decimal
}

// Window bounds a statement request. Both ends are inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// BuildStatement merges payments and expenses into a date-sorted statement.
// Inputs are assumed to be already scoped to the property and window by the
// repository; no filtering happens here. Equal-date ties keep arrival order
// (payments before expenses, then slice order), so the same inputs always
// produce the same statement.
func BuildStatement(payments []*payment.Payment, expenses []*expense.Expense) Statement {
	events := make([]Event, 0, len(payments)+len(expenses))

	for _, p := range payments {
		events = append(events, Event{
			Date:        p.Date,
			Kind:        KindIncome,
			Amount:      p.Amount,
			Description: incomeDescription,
		})
	}

	for _, e := range expenses {
		events = append(events, Event{
			Date:        e.Date,
			Kind:        KindExpense,
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	stmt := Statement{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetBalance:    decimal.Zero,
	}

	balance := decimal.Zero

	for i := range events {
		switch events[i].Kind {
		case KindIncome:
			balance = balance.Add(events[i].Amount)
			stmt.TotalIncome = stmt.TotalIncome.Add(events[i].Amount)
		case KindExpense:
			balance = balance.Sub(events[i].Amount)
			stmt.TotalExpenses = stmt.TotalExpenses.Add(events[i].Amount)
		}

		events[i].Balance = balance
	}

	stmt.Events = events
	stmt.NetBalance = stmt.TotalIncome.Sub(stmt.TotalExpenses)

	return stmt
}
