package http

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		url      string
		wantPage int
		wantSize int
	}{
		{"/api/reports/alice", 0, 20},
		{"/api/reports/alice?page=2&size=50", 2, 50},
		{"/api/reports/alice?page=-1", 0, 20},
		{"/api/reports/alice?size=0", 0, 20},
		{"/api/reports/alice?page=abc&size=xyz", 0, 20},
		{"/api/reports/alice?size=500", 0, 500}, // store clamps to its max
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", tc.url, nil)
		page, size := parsePagination(r)
		if page != tc.wantPage || size != tc.wantSize {
			t.Errorf("%s: expected page=%d size=%d, got page=%d size=%d",
				tc.url, tc.wantPage, tc.wantSize, page, size)
		}
	}
}
