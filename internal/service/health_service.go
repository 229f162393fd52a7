package service

import (
	"context"
	"database/sql"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// HealthChecker handles health check operations
type HealthChecker struct {
	db       *sql.DB
	queueURL string
	version  string
}

// NewHealthService creates a new HealthChecker instance
func NewHealthService(db *sql.DB, queueURL, version string) *HealthChecker {
	return &HealthChecker{
		db:       db,
		queueURL: queueURL,
		version:  version,
	}
}

// checkDatabase verifies PostgreSQL connectivity with a timeout
func (h *HealthChecker) checkDatabase() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

// checkQueue verifies RabbitMQ connectivity
func (h *HealthChecker) checkQueue() string {
	conn, err := amqp.Dial(h.queueURL)
	if err != nil {
		return StatusDisconnected
	}
	defer conn.Close()
	return StatusConnected
}

// determineOverallStatus calculates the overall health status. The database
// is load-bearing; the queue only carries cache refreshes, so losing it
// merely degrades.
func (h *HealthChecker) determineOverallStatus(services map[string]string) string {
	if services["database"] == StatusDisconnected {
		return StatusUnhealthy
	}
	if services["queue"] == StatusDisconnected {
		return StatusDegraded
	}
	return StatusHealthy
}

// CheckHealth performs health checks on all dependencies
func (h *HealthChecker) CheckHealth() (*HealthStatus, error) {
	services := map[string]string{
		"database": h.checkDatabase(),
		"queue":    h.checkQueue(),
	}

	return &HealthStatus{
		Status:    h.determineOverallStatus(services),
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}, nil
}
