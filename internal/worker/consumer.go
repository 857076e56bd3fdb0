// Package worker adapts consumed transaction messages to the aggregation
// engine.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finreport/internal/amqp"
	"finreport/internal/metrics"
	"finreport/internal/services"
)

// ReportWorker handles transaction messages pulled from the queue. Created
// and updated notifications both route to the identical aggregation call.
//
// Failure policy: a returned error makes the AMQP client reject the delivery
// without requeue and without dead-letter, so the event is dropped. Validation
// and storage failures are treated the same way.
type ReportWorker struct {
	aggregator *services.Aggregator
}

func NewReportWorker(aggregator *services.Aggregator) *ReportWorker {
	return &ReportWorker{aggregator: aggregator}
}

// HandleTransactionMessage applies one transaction message to its monthly
// report bucket.
func (w *ReportWorker) HandleTransactionMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	slog.InfoContext(ctx, "Processing transaction message",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID,
		"type", string(msg.Type))

	if err := w.aggregator.ApplyTransaction(ctx, msg); err != nil {
		metrics.EventsConsumed.WithLabelValues(metrics.OutcomeDropped).Inc()
		return fmt.Errorf("apply transaction: %w", err)
	}

	metrics.EventsConsumed.WithLabelValues(metrics.OutcomeApplied).Inc()
	return nil
}
