package core

// PeriodRangeSummary folds a range of monthly reports into aggregate totals
// alongside the per-period breakdown.
type PeriodRangeSummary struct {
	UserID       string          `json:"userId"`
	StartPeriod  string          `json:"startPeriod"`
	EndPeriod    string          `json:"endPeriod"`
	Reports      []MonthlyReport `json:"reports"`
	TotalIncome  Money           `json:"totalIncome"`
	TotalExpense Money           `json:"totalExpense"`
	Balance      Money           `json:"balance"`
}

// SummarizeReports reduces an ordered sequence of monthly reports to a range
// summary. An empty sequence yields zero totals, not an error.
func SummarizeReports(userID, startPeriod, endPeriod string, reports []MonthlyReport) PeriodRangeSummary {
	summary := PeriodRangeSummary{
		UserID:      userID,
		StartPeriod: startPeriod,
		EndPeriod:   endPeriod,
		Reports:     reports,
	}
	for _, r := range reports {
		summary.TotalIncome = summary.TotalIncome.Add(r.TotalIncome)
		summary.TotalExpense = summary.TotalExpense.Add(r.TotalExpense)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}
