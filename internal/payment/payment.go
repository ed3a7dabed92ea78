package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("payment not found")

// BankMovement is a credit parsed from an imported bank statement, before
// it is attributed to a property and tenant.
type BankMovement struct {
	Date      time.Time
	Amount    decimal.Decimal
	Reference string
}

// Payment represents money received from a tenant for a property.
type Payment struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	TenantID   uuid.UUID
	Amount     decimal.Decimal
	Currency   string
	Date       time.Time
	Reference  string // free-text bank reference or receipt note
	CreatedAt  time.Time
}
