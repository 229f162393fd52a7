package handler

import (
	"net/http"

	"wcm/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthService *service.HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(healthService *service.HealthChecker) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthStatus, err := h.healthService.CheckHealth()
	if err != nil {
		WriteInternalError(w)
		return
	}

	status := http.StatusOK
	if healthStatus.Status != service.StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, healthStatus)
}
