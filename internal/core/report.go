package core

import "time"

// MonthlyReport is the per-(user, period) aggregate maintained by the report
// service. Balance is a persisted cache of TotalIncome - TotalExpense and is
// recomputed from the totals after every mutation, never adjusted in place.
type MonthlyReport struct {
	ID           int64     `json:"reportId"`
	UserID       string    `json:"userId"`
	Period       string    `json:"period"`
	TotalIncome  Money     `json:"totalIncome"`
	TotalExpense Money     `json:"totalExpense"`
	Balance      Money     `json:"balance"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewMonthlyReport returns a zero-valued report for a bucket. The report has
// no identity until it is first saved.
func NewMonthlyReport(userID, period string) *MonthlyReport {
	return &MonthlyReport{
		UserID: userID,
		Period: period,
	}
}

// Rebalance recomputes the balance from the two totals. Callers must invoke
// it after any change to TotalIncome or TotalExpense so the invariant
// Balance == TotalIncome - TotalExpense holds after every mutation.
func (r *MonthlyReport) Rebalance() {
	r.Balance = r.TotalIncome.Sub(r.TotalExpense)
}
