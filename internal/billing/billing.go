// Package billing owns recurring charge definitions and the scheduler
// that turns due definitions into invoices.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/recurrence"
)

var ErrNotFound = errors.New("billing definition not found")

// maxAmount caps definitions at the largest magnitude the invoice
// amount-in-words rendering can spell out.
var maxAmount = decimal.New(1, 15)

// SubjectKind says who the recurring charge is billed to.
type SubjectKind string

const (
	SubjectTenant SubjectKind = "tenant" // rent
	SubjectOwner  SubjectKind = "owner"  // trustee fee
)

// Definition is a standing instruction to auto-generate a charge. While
// Active, NextGeneration always holds a concrete future calendar date at
// the configured generation day, clamped to the target month's length.
// Definitions are soft-disabled, never deleted, so historical invoices
// keep a valid reference.
type Definition struct {
	ID             uuid.UUID
	SubjectID      uuid.UUID
	SubjectKind    SubjectKind
	PropertyID     uuid.UUID
	Periodicity    recurrence.Periodicity
	GenerationDay  int
	Amount         decimal.Decimal
	Currency       string
	Active         bool
	NextGeneration time.Time
	CreatedAt      time.Time
}

// ValidationError rejects an invalid definition at save time, before it
// can ever reach the scheduler.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateParams carries the user's configuration for a new definition.
type CreateParams struct {
	SubjectID     uuid.UUID
	SubjectKind   SubjectKind
	PropertyID    uuid.UUID
	Periodicity   string
	GenerationDay int
	Amount        decimal.Decimal
	Currency      string
}

// Validate checks the parameters and returns the parsed periodicity.
func (p CreateParams) Validate() (recurrence.Periodicity, error) {
	if p.SubjectKind != SubjectTenant && p.SubjectKind != SubjectOwner {
		return "", &ValidationError{Field: "subject_kind", Reason: fmt.Sprintf("must be %q or %q", SubjectTenant, SubjectOwner)}
	}

	periodicity, err := recurrence.Parse(p.Periodicity)
	if err != nil {
		return "", &ValidationError{Field: "periodicity", Reason: err.Error()}
	}

	if p.GenerationDay < 1 || p.GenerationDay > 31 {
		return "", &ValidationError{Field: "generation_day", Reason: "must be between 1 and 31"}
	}

	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return "", &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	if p.Amount.GreaterThanOrEqual(maxAmount) {
		return "", &ValidationError{Field: "amount", Reason: "must be below 10^15"}
	}

	if p.Currency == "" {
		return "", &ValidationError{Field: "currency", Reason: "is required"}
	}

	return periodicity, nil
}
