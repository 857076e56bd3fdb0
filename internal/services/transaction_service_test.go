package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"finreport/internal/amqp"
	"finreport/internal/core"
)

type memoryTransactionStore struct {
	nextID       int64
	transactions map[int64]core.Transaction
}

func newMemoryTransactionStore() *memoryTransactionStore {
	return &memoryTransactionStore{transactions: map[int64]core.Transaction{}}
}

func (s *memoryTransactionStore) Create(ctx context.Context, t *core.Transaction) error {
	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = time.Now().UTC()
	s.transactions[t.ID] = *t
	return nil
}

func (s *memoryTransactionStore) GetByID(ctx context.Context, id int64) (*core.Transaction, error) {
	t, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, id)
	}
	return &t, nil
}

func (s *memoryTransactionStore) List(ctx context.Context, page, size int) (core.Page[core.Transaction], error) {
	var content []core.Transaction
	for _, t := range s.transactions {
		content = append(content, t)
	}
	return core.NewPage(content, page, core.ClampPageSize(size), int64(len(content))), nil
}

func (s *memoryTransactionStore) Update(ctx context.Context, t *core.Transaction) error {
	if _, ok := s.transactions[t.ID]; !ok {
		return fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, t.ID)
	}
	s.transactions[t.ID] = *t
	return nil
}

func (s *memoryTransactionStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, id)
	}
	delete(s.transactions, id)
	return nil
}

type capturingPublisher struct {
	created []*amqp.TransactionMessage
	updated []*amqp.TransactionMessage
	fail    error
}

func (p *capturingPublisher) PublishCreated(ctx context.Context, msg *amqp.TransactionMessage) error {
	if p.fail != nil {
		return p.fail
	}
	p.created = append(p.created, msg)
	return nil
}

func (p *capturingPublisher) PublishUpdated(ctx context.Context, msg *amqp.TransactionMessage) error {
	if p.fail != nil {
		return p.fail
	}
	p.updated = append(p.updated, msg)
	return nil
}

func serviceTransaction() core.Transaction {
	return core.Transaction{
		UserID:   "alice",
		Type:     core.Income,
		Amount:   core.Money{Cents: 100000},
		Date:     time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Category: "salary",
	}
}

func TestCreatePersistsAndPublishes(t *testing.T) {
	store := newMemoryTransactionStore()
	publisher := &capturingPublisher{}
	svc := NewTransactionService(store, publisher)

	created, err := svc.Create(context.Background(), serviceTransaction())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Error("created transaction should have an id")
	}
	if len(publisher.created) != 1 {
		t.Fatalf("expected 1 created message, got %d", len(publisher.created))
	}
	if publisher.created[0].TransactionID != created.ID {
		t.Errorf("message should carry the persisted id %d, got %d",
			created.ID, publisher.created[0].TransactionID)
	}
}

func TestCreateRejectsInvalidTransaction(t *testing.T) {
	store := newMemoryTransactionStore()
	svc := NewTransactionService(store, &capturingPublisher{})

	tx := serviceTransaction()
	tx.Amount = core.Money{Cents: -100}

	_, err := svc.Create(context.Background(), tx)
	if !errors.Is(err, core.ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}
	if len(store.transactions) != 0 {
		t.Error("invalid transaction must not be persisted")
	}
}

func TestCreateSucceedsWhenPublishFails(t *testing.T) {
	// The transaction is already persisted when publishing runs; a broker
	// failure must not fail the request.
	store := newMemoryTransactionStore()
	publisher := &capturingPublisher{fail: errors.New("broker down")}
	svc := NewTransactionService(store, publisher)

	created, err := svc.Create(context.Background(), serviceTransaction())
	if err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}
	if _, err := store.GetByID(context.Background(), created.ID); err != nil {
		t.Errorf("transaction should be persisted: %v", err)
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	svc := NewTransactionService(newMemoryTransactionStore(), nil)

	if _, err := svc.Create(context.Background(), serviceTransaction()); err != nil {
		t.Fatalf("create without publisher should succeed: %v", err)
	}
}

func TestUpdatePublishesUpdatedMessage(t *testing.T) {
	store := newMemoryTransactionStore()
	publisher := &capturingPublisher{}
	svc := NewTransactionService(store, publisher)

	created, err := svc.Create(context.Background(), serviceTransaction())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := *created
	updated.Amount = core.Money{Cents: 150000}
	if _, err := svc.Update(context.Background(), updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(publisher.updated) != 1 {
		t.Fatalf("expected 1 updated message, got %d", len(publisher.updated))
	}
	if publisher.updated[0].Amount.Cents != 150000 {
		t.Errorf("message should carry the new amount, got %d", publisher.updated[0].Amount.Cents)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	svc := NewTransactionService(newMemoryTransactionStore(), &capturingPublisher{})

	tx := serviceTransaction()
	tx.ID = 99
	_, err := svc.Update(context.Background(), tx)
	if !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDeletePublishesNothing(t *testing.T) {
	store := newMemoryTransactionStore()
	publisher := &capturingPublisher{}
	svc := NewTransactionService(store, publisher)

	created, err := svc.Create(context.Background(), serviceTransaction())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(publisher.created) != 1 || len(publisher.updated) != 0 {
		t.Errorf("delete must not publish, got created=%d updated=%d",
			len(publisher.created), len(publisher.updated))
	}
}
