package handlers

import (
	"net/http"

	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/rs/zerolog/log"
)

// CSVDownloadName is the file name offered to clients for CSV reports.
const CSVDownloadName = "employee_report.csv"

// ReportHandler serves the employee/department report in several formats.
type ReportHandler struct {
	service services.ReportServiceProvider
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service services.ReportServiceProvider) *ReportHandler {
	return &ReportHandler{service: service}
}

// EmployeeDepartments returns the report rows as JSON.
func (h *ReportHandler) EmployeeDepartments(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}
	rows, err := h.service.EmployeeDepartments(r.Context(), page)
	if err != nil {
		writeError(w, r, err, "build report")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// CSV writes the report to disk and sends it as an attachment.
func (h *ReportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}
	path, err := h.service.WriteCSV(r.Context(), page)
	if err != nil {
		writeError(w, r, err, "write csv report")
		return
	}

	log.Info().Str("user", currentUsername(r)).Str("path", path).Msg("Serving CSV report")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+CSVDownloadName+`"`)
	http.ServeFile(w, r, path)
}

// HTML renders the report as a standalone page.
func (h *ReportHandler) HTML(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}
	_, body, err := h.service.WriteHTML(r.Context(), page)
	if err != nil {
		writeError(w, r, err, "write html report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
