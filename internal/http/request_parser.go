package http

import (
	"net/http"
	"strconv"
)

// parsePagination reads page/size query parameters, falling back to the
// first page of twenty elements. The store caps size at its own maximum.
func parsePagination(r *http.Request) (page, size int) {
	page, size = 0, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			size = s
		}
	}
	return page, size
}
