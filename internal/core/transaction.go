package core

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType is the closed set of transaction kinds. Any other value is
// treated by the aggregation engine as a deliberate no-op on the totals.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Known reports whether the type is one of the closed set.
func (t TransactionType) Known() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Transaction is the entity owned by the transaction service.
type Transaction struct {
	ID          int64           `json:"transactionId"`
	UserID      string          `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      Money           `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate checks a transaction before it is persisted.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("%w: user id cannot be blank", ErrInvalidTransaction)
	}
	if !t.Type.Known() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, string(t.Type))
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category cannot be blank", ErrInvalidTransaction)
	}
	if len(t.Description) > 500 {
		return fmt.Errorf("%w: description too long (max 500 characters)", ErrInvalidTransaction)
	}
	return nil
}
