package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finreport/internal/core"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses. Storage failures fall
// through to 500 with a generic message; the wrapped detail stays in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, core.ErrReportNotFound), errors.Is(err, core.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrMalformedPeriod),
		errors.Is(err, core.ErrInvalidTransaction),
		errors.Is(err, core.ErrInvalidAmount):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
	}

	writeJSON(w, status, errorResponse{Status: status, Message: message})
}
