package amqp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finreport/internal/core"
)

// dateLayout is the wire format for transaction dates.
const dateLayout = "2006-01-02"

// Date wraps time.Time so transaction dates travel as plain "YYYY-MM-DD"
// strings on the wire.
type Date struct {
	time.Time
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// TransactionMessage is the event published by the transaction service and
// consumed by the report worker. The consumer treats it as an immutable input
// record. TransactionID is carried for potential future idempotence but is
// not currently consulted when aggregating.
type TransactionMessage struct {
	TransactionID int64                `json:"transactionId"`
	UserID        string               `json:"userId"`
	Type          core.TransactionType `json:"type"`
	Amount        core.Money           `json:"amount"`
	Date          Date                 `json:"date"`
	Category      string               `json:"category"`
	Description   string               `json:"description,omitempty"`
}

// NewTransactionMessage builds the wire message for a persisted transaction.
func NewTransactionMessage(t core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Type:          t.Type,
		Amount:        t.Amount,
		Date:          Date{Time: t.Date},
		Category:      t.Category,
		Description:   t.Description,
	}
}

// Validate checks the fields the aggregation engine requires. A zero amount
// means the field was absent; a negative amount is left for the engine to
// treat as no-op-safe input.
func (m *TransactionMessage) Validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("%w: user id is blank", core.ErrInvalidEvent)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("%w: date is missing", core.ErrInvalidEvent)
	}
	if m.Amount.Cents == 0 {
		return fmt.Errorf("%w: amount is missing", core.ErrInvalidEvent)
	}
	if m.Type == "" {
		return fmt.Errorf("%w: type is missing", core.ErrInvalidEvent)
	}
	return nil
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON creates a message from JSON bytes.
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
