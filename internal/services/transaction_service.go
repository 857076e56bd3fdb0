package services

import (
	"context"
	"fmt"
	"log/slog"

	"finreport/internal/amqp"
	"finreport/internal/core"
)

// TransactionPublisher publishes transaction lifecycle messages. Satisfied by
// *amqp.Client.
type TransactionPublisher interface {
	PublishCreated(ctx context.Context, msg *amqp.TransactionMessage) error
	PublishUpdated(ctx context.Context, msg *amqp.TransactionMessage) error
}

// TransactionStore is the persistence abstraction for transactions.
type TransactionStore interface {
	Create(ctx context.Context, t *core.Transaction) error
	GetByID(ctx context.Context, id int64) (*core.Transaction, error)
	List(ctx context.Context, page, size int) (core.Page[core.Transaction], error)
	Update(ctx context.Context, t *core.Transaction) error
	Delete(ctx context.Context, id int64) error
}

// TransactionService orchestrates transaction CRUD and the message
// publication that feeds the report pipeline. Publishing is best-effort: the
// transaction is already persisted, so a broker failure is logged and the
// request still succeeds.
type TransactionService struct {
	store     TransactionStore
	publisher TransactionPublisher
}

func NewTransactionService(store TransactionStore, publisher TransactionPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// Create validates and persists a transaction, then publishes the
// transaction.created message.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (*core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &t); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCreated(ctx, amqp.NewTransactionMessage(t)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish created message",
				"transaction_id", t.ID, "error", err)
		}
	} else {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping created message",
			"transaction_id", t.ID)
	}
	return &t, nil
}

// GetByID returns one transaction.
func (s *TransactionService) GetByID(ctx context.Context, id int64) (*core.Transaction, error) {
	return s.store.GetByID(ctx, id)
}

// List returns one page of transactions.
func (s *TransactionService) List(ctx context.Context, page, size int) (core.Page[core.Transaction], error) {
	return s.store.List(ctx, page, size)
}

// Update rewrites an existing transaction and publishes the
// transaction.updated message. The report pipeline treats the update exactly
// like a creation; it does not retract the previously accumulated amount.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) (*core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &t); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishUpdated(ctx, amqp.NewTransactionMessage(t)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish updated message",
				"transaction_id", t.ID, "error", err)
		}
	}
	return &t, nil
}

// Delete removes a transaction. No message is published: the report pipeline
// has no compensating path for deletions.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
