package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finreport/internal/core"
)

const transactionDateLayout = "2006-01-02"

// TransactionStore owns Transaction persistence for the transaction service.
type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create inserts a transaction and assigns its id.
func (s *TransactionStore) Create(ctx context.Context, t *core.Transaction) error {
	t.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, type, amount_cents, date, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, string(t.Type), t.Amount.Cents,
		t.Date.Format(transactionDateLayout), t.Category, t.Description,
		formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id
	return nil
}

// GetByID returns one transaction or core.ErrTransactionNotFound.
func (s *TransactionStore) GetByID(ctx context.Context, id int64) (*core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT transaction_id, user_id, type, amount_cents, date, category, description, created_at
		FROM transactions
		WHERE transaction_id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return t, nil
}

// List returns one page of transactions, newest first.
func (s *TransactionStore) List(ctx context.Context, page, size int) (core.Page[core.Transaction], error) {
	var zero core.Page[core.Transaction]
	size = core.ClampPageSize(size)
	if page < 0 {
		page = 0
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return zero, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, user_id, type, amount_cents, date, category, description, created_at
		FROM transactions
		ORDER BY transaction_id DESC
		LIMIT ? OFFSET ?`, size, page*size)
	if err != nil {
		return zero, fmt.Errorf("query transactions page: %w", err)
	}
	defer rows.Close()

	content := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return zero, fmt.Errorf("scan transaction: %w", err)
		}
		content = append(content, *t)
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("iterate transactions: %w", err)
	}
	return core.NewPage(content, page, size, total), nil
}

// Update rewrites the mutable fields of an existing transaction.
func (s *TransactionStore) Update(ctx context.Context, t *core.Transaction) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET user_id = ?, type = ?, amount_cents = ?, date = ?, category = ?, description = ?
		WHERE transaction_id = ?`,
		t.UserID, string(t.Type), t.Amount.Cents,
		t.Date.Format(transactionDateLayout), t.Category, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, t.ID)
	}
	return nil
}

// Delete removes a transaction by id.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", core.ErrTransactionNotFound, id)
	}
	return nil
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		t           core.Transaction
		typ         string
		amountCents int64
		date        string
		createdAt   string
	)
	err := row.Scan(&t.ID, &t.UserID, &typ, &amountCents, &date, &t.Category, &t.Description, &createdAt)
	if err != nil {
		return nil, err
	}
	t.Type = core.TransactionType(typ)
	t.Amount = core.Money{Cents: amountCents}
	if d, err := time.Parse(transactionDateLayout, date); err == nil {
		t.Date = d
	}
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}
