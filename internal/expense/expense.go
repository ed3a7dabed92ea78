package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("expense not found")

// Expense represents money spent on a property (repairs, taxes, utilities…).
type Expense struct {
	ID          uuid.UUID
	PropertyID  uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
