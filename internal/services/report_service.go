package services

import (
	"context"
	"fmt"

	"finreport/internal/core"
	"finreport/internal/pdf"
)

// ReportService answers the read, summary and delete queries of the report
// API. Every caller-supplied period string is validated before it is used as
// a store key.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// GetReport returns the monthly report for one (user, period) bucket.
func (s *ReportService) GetReport(ctx context.Context, userID, period string) (*core.MonthlyReport, error) {
	if err := core.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return s.store.FindByUserAndPeriod(ctx, userID, period)
}

// ListReports returns one page of a user's reports, newest period first.
func (s *ReportService) ListReports(ctx context.Context, userID string, page, size int) (core.Page[core.MonthlyReport], error) {
	return s.store.FindAllByUser(ctx, userID, page, size)
}

// Summarize folds the user's reports within the inclusive period range into
// a totals summary with the per-period breakdown. An empty range yields a
// zero-valued summary, not a failure.
func (s *ReportService) Summarize(ctx context.Context, userID, startPeriod, endPeriod string) (core.PeriodRangeSummary, error) {
	var zero core.PeriodRangeSummary
	if err := core.ValidatePeriod(startPeriod); err != nil {
		return zero, err
	}
	if err := core.ValidatePeriod(endPeriod); err != nil {
		return zero, err
	}

	reports, err := s.store.FindRange(ctx, userID, startPeriod, endPeriod)
	if err != nil {
		return zero, fmt.Errorf("fetch report range: %w", err)
	}
	return core.SummarizeReports(userID, startPeriod, endPeriod, reports), nil
}

// DeleteReport removes a report. Deleting a bucket that does not exist
// returns core.ErrReportNotFound.
func (s *ReportService) DeleteReport(ctx context.Context, userID, period string) error {
	if err := core.ValidatePeriod(period); err != nil {
		return err
	}
	report, err := s.store.FindByUserAndPeriod(ctx, userID, period)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, report)
}

// ExportPDF renders the report for one bucket as a PDF document and returns
// the bytes together with the download filename.
func (s *ReportService) ExportPDF(ctx context.Context, userID, period string) ([]byte, string, error) {
	report, err := s.GetReport(ctx, userID, period)
	if err != nil {
		return nil, "", err
	}
	doc, err := pdf.GenerateReport(report)
	if err != nil {
		return nil, "", fmt.Errorf("generate report pdf: %w", err)
	}
	return doc, pdf.ReportFileName(userID, period), nil
}
