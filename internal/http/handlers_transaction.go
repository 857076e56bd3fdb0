package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"finreport/internal/core"
	"finreport/internal/metrics"
	"finreport/internal/services"
)

const transactionDateLayout = "2006-01-02"

// TransactionHandler serves the transaction CRUD API.
type TransactionHandler struct {
	svc *services.TransactionService
}

func NewTransactionHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// Router builds the transaction service routes.
func (h *TransactionHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(withRequestLogging)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/transactions").Subrouter()
	api.HandleFunc("", h.create).Methods(http.MethodPost)
	api.HandleFunc("", h.list).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.getByID).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)

	return r
}

// transactionRequest is the JSON payload for create and update.
type transactionRequest struct {
	UserID      string     `json:"userId"`
	Type        string     `json:"type"`
	Amount      core.Money `json:"amount"`
	Date        string     `json:"date"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	var t core.Transaction
	date, err := time.Parse(transactionDateLayout, req.Date)
	if err != nil {
		return t, fmt.Errorf("%w: date must be YYYY-MM-DD", core.ErrInvalidTransaction)
	}
	t = core.Transaction{
		UserID:      req.UserID,
		Type:        core.TransactionType(req.Type),
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
	}
	return t, nil
}

// transactionResponse keeps dates in plain YYYY-MM-DD on the wire.
type transactionResponse struct {
	TransactionID int64      `json:"transactionId"`
	UserID        string     `json:"userId"`
	Type          string     `json:"type"`
	Amount        core.Money `json:"amount"`
	Date          string     `json:"date"`
	Category      string     `json:"category"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toTransactionResponse(t *core.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Date:          t.Date.Format(transactionDateLayout),
		Category:      t.Category,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

func (h *TransactionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	t, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.svc.Create(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (h *TransactionHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	t, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	result, err := h.svc.List(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	content := make([]transactionResponse, len(result.Content))
	for i := range result.Content {
		content[i] = toTransactionResponse(&result.Content[i])
	}
	writeJSON(w, http.StatusOK, core.Page[transactionResponse]{
		Content:       content,
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		Last:          result.Last,
	})
}

func (h *TransactionHandler) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	t, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}
	t.ID = id

	updated, err := h.svc.Update(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (h *TransactionHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
