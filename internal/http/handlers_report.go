package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"finreport/internal/metrics"
	"finreport/internal/services"
)

// ReportHandler serves the report read, summary, delete and export API.
type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Router builds the report service routes.
func (h *ReportHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(withRequestLogging)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/reports").Subrouter()
	api.HandleFunc("/{userId}", h.listByUser).Methods(http.MethodGet)
	api.HandleFunc("/{userId}/summary", h.summary).Methods(http.MethodGet)
	api.HandleFunc("/{userId}/{period}", h.getReport).Methods(http.MethodGet)
	api.HandleFunc("/{userId}/{period}", h.deleteReport).Methods(http.MethodDelete)
	api.HandleFunc("/{userId}/{period}/pdf", h.exportPDF).Methods(http.MethodGet)

	return r
}

func (h *ReportHandler) getReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	report, err := h.svc.GetReport(r.Context(), vars["userId"], vars["period"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	result, err := h.svc.ListReports(r.Context(), mux.Vars(r)["userId"], page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ReportHandler) summary(w http.ResponseWriter, r *http.Request) {
	startPeriod := r.URL.Query().Get("startPeriod")
	endPeriod := r.URL.Query().Get("endPeriod")

	summary, err := h.svc.Summarize(r.Context(), mux.Vars(r)["userId"], startPeriod, endPeriod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) deleteReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteReport(r.Context(), vars["userId"], vars["period"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReportHandler) exportPDF(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doc, filename, err := h.svc.ExportPDF(r.Context(), vars["userId"], vars["period"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
