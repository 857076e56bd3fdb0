// Package pdf renders monthly reports as downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"finreport/internal/core"
)

// GenerateReport renders a single monthly report as a one-page PDF.
func GenerateReport(report *core.MonthlyReport) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Monthly Financial Report")
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"User", report.UserID},
		{"Period", report.Period},
		{"Total income", report.TotalIncome.String()},
		{"Total expense", report.TotalExpense.String()},
		{"Balance", report.Balance.String()},
	}
	for _, row := range rows {
		doc.CellFormat(60, 8, row[0], "1", 0, "L", false, 0, "")
		doc.CellFormat(0, 8, row[1], "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportFileName builds the download filename for one report export.
func ReportFileName(userID, period string) string {
	return fmt.Sprintf("report-%s-%s.pdf", userID, period)
}
