package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("invoice not found")

// Status is the lifecycle state of an invoice. The scheduler only ever
// creates issued invoices; payment and cancellation belong to the CRUD
// flows around this core.
type Status string

const (
	StatusIssued    Status = "issued"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Invoice is a generated charge document.
type Invoice struct {
	ID            uuid.UUID
	Number        string // e.g. INV-2026-000042, assigned by the store
	DefinitionID  uuid.UUID
	SubjectID     uuid.UUID
	SubjectKind   string
	PropertyID    uuid.UUID
	IssueDate     time.Time
	DueDate       time.Time
	Amount        decimal.Decimal
	LateFee       decimal.Decimal
	AmountInWords string
	Currency      string
	Status        Status
	CreatedAt     time.Time
}
