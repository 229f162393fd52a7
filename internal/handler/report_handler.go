package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"wcm/internal/middleware"
	"wcm/internal/service"
)

// ReportHandler handles delivery report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CampaignReport handles GET /campaigns/{id}/report
func (h *ReportHandler) CampaignReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := mux.Vars(r)["id"]

	report, err := h.reportService.CampaignReport(r.Context(), id, claims.UserID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, report)
}

// OwnerReports handles GET /reports
func (h *ReportHandler) OwnerReports(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	reports, err := h.reportService.OwnerReports(r.Context(), claims.UserID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]interface{}{"reports": reports})
}

// OwnerSummary handles GET /reports/summary
func (h *ReportHandler) OwnerSummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	summary, err := h.reportService.OwnerSummary(r.Context(), claims.UserID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, summary)
}
