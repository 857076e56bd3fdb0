package core

import "testing"

func TestNewMonthlyReport(t *testing.T) {
	r := NewMonthlyReport("alice", "2024-03")

	if r.UserID != "alice" || r.Period != "2024-03" {
		t.Errorf("unexpected identity: %q %q", r.UserID, r.Period)
	}
	if r.ID != 0 {
		t.Error("new report should have no id before first save")
	}
	if r.TotalIncome.Cents != 0 || r.TotalExpense.Cents != 0 || r.Balance.Cents != 0 {
		t.Error("new report should start with zero totals")
	}
}

func TestRebalance(t *testing.T) {
	cases := []struct {
		income, expense, want int64
	}{
		{100000, 0, 100000},
		{500000, 300000, 200000},
		{100000, 150000, -50000}, // balance may go negative
		{0, 0, 0},
	}
	for _, tc := range cases {
		r := MonthlyReport{
			TotalIncome:  Money{Cents: tc.income},
			TotalExpense: Money{Cents: tc.expense},
		}
		r.Rebalance()
		if r.Balance.Cents != tc.want {
			t.Errorf("income=%d expense=%d: expected balance %d, got %d",
				tc.income, tc.expense, tc.want, r.Balance.Cents)
		}
	}
}
