package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"finreport/internal/core"
)

// ReportStore owns MonthlyReport persistence. Concurrent read-modify-write
// sequences for the same (user, period) bucket must run under WithBucketLock
// so accumulations are strictly ordered and none is lost.
type ReportStore struct {
	db    *sql.DB
	locks sync.Map // bucket key -> *sync.Mutex
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

func bucketKey(userID, period string) string {
	return userID + "\x00" + period
}

// WithBucketLock runs fn while holding the mutex for one (user, period)
// bucket. Mutexes are kept for the process lifetime; the bucket space is
// bounded by users x months.
func (s *ReportStore) WithBucketLock(userID, period string, fn func() error) error {
	v, _ := s.locks.LoadOrStore(bucketKey(userID, period), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// FindByUserAndPeriod returns the report for one bucket, or
// core.ErrReportNotFound when none exists.
func (s *ReportStore) FindByUserAndPeriod(ctx context.Context, userID, period string) (*core.MonthlyReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT report_id, user_id, period, total_income_cents, total_expense_cents,
		       balance_cents, created_at, updated_at
		FROM reports
		WHERE user_id = ? AND period = ?`, userID, period)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s period %s", core.ErrReportNotFound, userID, period)
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}

// Save inserts the report when it has no identity yet, assigning its
// surrogate id, and updates it in place otherwise.
func (s *ReportStore) Save(ctx context.Context, report *core.MonthlyReport) error {
	now := time.Now().UTC()
	if report.ID == 0 {
		report.CreatedAt = now
		report.UpdatedAt = now
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO reports (user_id, period, total_income_cents, total_expense_cents,
			                     balance_cents, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.UserID, report.Period,
			report.TotalIncome.Cents, report.TotalExpense.Cents, report.Balance.Cents,
			formatTime(now), formatTime(now))
		if err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("report insert id: %w", err)
		}
		report.ID = id
		return nil
	}

	report.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		UPDATE reports
		SET total_income_cents = ?, total_expense_cents = ?, balance_cents = ?, updated_at = ?
		WHERE report_id = ?`,
		report.TotalIncome.Cents, report.TotalExpense.Cents, report.Balance.Cents,
		formatTime(now), report.ID)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// FindRange returns the reports of one user whose period lies within the
// inclusive [startPeriod, endPeriod] range, ascending by period.
// Lexicographic comparison is valid because the key format is fixed-width.
func (s *ReportStore) FindRange(ctx context.Context, userID, startPeriod, endPeriod string) ([]core.MonthlyReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT report_id, user_id, period, total_income_cents, total_expense_cents,
		       balance_cents, created_at, updated_at
		FROM reports
		WHERE user_id = ? AND period >= ? AND period <= ?
		ORDER BY period ASC`, userID, startPeriod, endPeriod)
	if err != nil {
		return nil, fmt.Errorf("query report range: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// FindAllByUser returns one page of a user's reports, newest period first.
func (s *ReportStore) FindAllByUser(ctx context.Context, userID string, page, size int) (core.Page[core.MonthlyReport], error) {
	var zero core.Page[core.MonthlyReport]
	size = core.ClampPageSize(size)
	if page < 0 {
		page = 0
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return zero, fmt.Errorf("count reports: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT report_id, user_id, period, total_income_cents, total_expense_cents,
		       balance_cents, created_at, updated_at
		FROM reports
		WHERE user_id = ?
		ORDER BY period DESC
		LIMIT ? OFFSET ?`, userID, size, page*size)
	if err != nil {
		return zero, fmt.Errorf("query reports page: %w", err)
	}
	defer rows.Close()

	content, err := collectReports(rows)
	if err != nil {
		return zero, err
	}
	return core.NewPage(content, page, size, total), nil
}

// Delete removes a persisted report. Deleting a report that no longer exists
// returns core.ErrReportNotFound.
func (s *ReportStore) Delete(ctx context.Context, report *core.MonthlyReport) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE report_id = ?`, report.ID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %s period %s", core.ErrReportNotFound, report.UserID, report.Period)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*core.MonthlyReport, error) {
	var (
		r                    core.MonthlyReport
		income, expense, bal int64
		createdAt, updatedAt string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Period, &income, &expense, &bal, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.TotalIncome = core.Money{Cents: income}
	r.TotalExpense = core.Money{Cents: expense}
	r.Balance = core.Money{Cents: bal}
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

func collectReports(rows *sql.Rows) ([]core.MonthlyReport, error) {
	reports := []core.MonthlyReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
