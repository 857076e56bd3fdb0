// Package services holds the business logic of both services: the monthly
// aggregation engine, the report read paths and the transaction CRUD
// orchestration.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finreport/internal/amqp"
	"finreport/internal/core"
	"finreport/internal/metrics"
)

// ReportStore is the storage abstraction the aggregation engine and the read
// paths require. The implementation must keep at most one report per
// (user, period) pair, order range queries ascending by period, and serialize
// callers of WithBucketLock per bucket.
type ReportStore interface {
	WithBucketLock(userID, period string, fn func() error) error
	FindByUserAndPeriod(ctx context.Context, userID, period string) (*core.MonthlyReport, error)
	Save(ctx context.Context, report *core.MonthlyReport) error
	FindRange(ctx context.Context, userID, startPeriod, endPeriod string) ([]core.MonthlyReport, error)
	FindAllByUser(ctx context.Context, userID string, page, size int) (core.Page[core.MonthlyReport], error)
	Delete(ctx context.Context, report *core.MonthlyReport) error
}

// Aggregator applies incoming transaction events to monthly reports.
//
// ApplyTransaction is deliberately not idempotent: replaying the same event
// double-accumulates. Deduplication by transaction id is a documented
// limitation of the pipeline, not something this layer fixes silently.
type Aggregator struct {
	store ReportStore
}

func NewAggregator(store ReportStore) *Aggregator {
	return &Aggregator{store: store}
}

// ApplyTransaction validates the event, resolves its monthly bucket and
// accumulates the amount into the matching total. The whole read-modify-write
// runs under the bucket lock so concurrent events for the same bucket are
// strictly ordered. Once started, the operation runs to completion or fails;
// storage failures propagate unmodified and are never retried here.
func (a *Aggregator) ApplyTransaction(ctx context.Context, msg *amqp.TransactionMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	period := core.DerivePeriod(msg.Date.Time)

	return a.store.WithBucketLock(msg.UserID, period, func() error {
		report, err := a.getOrCreate(ctx, msg.UserID, period)
		if err != nil {
			return err
		}

		a.accumulate(ctx, report, msg)
		report.Rebalance()

		if err := a.store.Save(ctx, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		return nil
	})
}

// getOrCreate looks the bucket up and, when absent, persists a zero-valued
// report immediately so it has a stable identity before any mutation.
func (a *Aggregator) getOrCreate(ctx context.Context, userID, period string) (*core.MonthlyReport, error) {
	report, err := a.store.FindByUserAndPeriod(ctx, userID, period)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, core.ErrReportNotFound) {
		return nil, fmt.Errorf("find report: %w", err)
	}

	report = core.NewMonthlyReport(userID, period)
	if err := a.store.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	metrics.ReportsCreated.Inc()
	slog.InfoContext(ctx, "Created monthly report",
		"user_id", userID,
		"period", period,
		"report_id", report.ID)
	return report, nil
}

// accumulate adds the event amount to the matching total. The default arm is
// an explicit no-op: an unknown type never fails the event, it is only logged
// as anomalous.
func (a *Aggregator) accumulate(ctx context.Context, report *core.MonthlyReport, msg *amqp.TransactionMessage) {
	switch msg.Type {
	case core.Income:
		report.TotalIncome = report.TotalIncome.Add(msg.Amount)
	case core.Expense:
		report.TotalExpense = report.TotalExpense.Add(msg.Amount)
	default:
		slog.WarnContext(ctx, "Unknown transaction type, totals unchanged",
			"type", string(msg.Type),
			"transaction_id", msg.TransactionID,
			"user_id", msg.UserID)
	}
}
