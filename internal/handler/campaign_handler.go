package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wcm/internal/middleware"
	"wcm/internal/models"
	"wcm/internal/repository"
	"wcm/internal/service"
)

// CampaignHandler handles HTTP requests for campaign operations
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req service.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	campaign, err := h.campaignService.CreateCampaign(r.Context(), claims.UserID, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, campaign)
}

// List handles GET /campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 20
	if perPageStr := query.Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}
	if perPage > 100 {
		perPage = 100
	}

	filters := repository.CampaignFilters{
		Page:     page,
		PageSize: perPage,
	}

	if statusStr := query.Get("status"); statusStr != "" {
		status := models.CampaignStatus(statusStr)
		if !models.ValidCampaignStatus(status) {
			WriteValidationError(w, "invalid status: must be one of draft, scheduled, sending, completed, failed")
			return
		}
		filters.Status = &status
	}

	campaigns, pagination, err := h.campaignService.ListCampaigns(r.Context(), claims.UserID, filters)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListCampaignsResponse{
		Campaigns:  campaigns,
		Pagination: pagination,
	})
}

// GetByID handles GET /campaigns/{id}
func (h *CampaignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		WriteValidationError(w, "campaign ID is required")
		return
	}

	campaign, err := h.campaignService.GetCampaign(r.Context(), id, claims.UserID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, campaign)
}

// Delete handles DELETE /campaigns/{id}
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := mux.Vars(r)["id"]

	if err := h.campaignService.DeleteCampaign(r.Context(), id, claims.UserID); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// UpdateStatus handles PUT /campaigns/{id}/status
func (h *CampaignHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := mux.Vars(r)["id"]

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if err := h.campaignService.UpdateStatus(r.Context(), id, claims.UserID, req.Status); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]string{"message": "status updated"})
}

// Send handles POST /campaigns/{id}/send
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := mux.Vars(r)["id"]

	result, err := h.campaignService.SendCampaign(r.Context(), id, claims.UserID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	// Delivery continues in the background
	WriteJSON(w, http.StatusAccepted, result)
}

// Request/Response types

// ListCampaignsResponse represents the response for listing campaigns
type ListCampaignsResponse struct {
	Campaigns  []*models.Campaign      `json:"campaigns"`
	Pagination *service.PaginationInfo `json:"pagination"`
}

// UpdateStatusRequest represents a manual status override
type UpdateStatusRequest struct {
	Status models.CampaignStatus `json:"status"`
}
