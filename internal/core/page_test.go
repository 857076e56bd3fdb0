package core

import "testing"

func TestNewPage(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		total      int64
		wantPages  int
		wantLast   bool
	}{
		{"first of many", 0, 20, 45, 3, false},
		{"middle", 1, 20, 45, 3, false},
		{"last partial", 2, 20, 45, 3, true},
		{"exact fit", 1, 20, 40, 2, true},
		{"empty", 0, 20, 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewPage([]int{}, tc.page, tc.size, tc.total)
			if got.TotalPages != tc.wantPages {
				t.Errorf("expected %d total pages, got %d", tc.wantPages, got.TotalPages)
			}
			if got.Last != tc.wantLast {
				t.Errorf("expected last=%v, got %v", tc.wantLast, got.Last)
			}
			if got.TotalElements != tc.total {
				t.Errorf("expected %d elements, got %d", tc.total, got.TotalElements)
			}
		})
	}
}

func TestClampPageSize(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1},
		{-5, 1},
		{1, 1},
		{20, 20},
		{100, 100},
		{101, 100},
		{10000, 100},
	}
	for _, tc := range cases {
		if got := ClampPageSize(tc.in); got != tc.want {
			t.Errorf("ClampPageSize(%d): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
