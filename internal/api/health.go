// Package api provides HTTP handlers for the social graph service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/ws"
)

// SchemaCheck verifies the store's schema. Nil skips the check.
type SchemaCheck func(ctx context.Context) error

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store         HealthChecker
	schema        SchemaCheck
	hub           *ws.Hub
	log           *logrus.Logger
	version       string
	backend       string
	schemaVersion int
	startTime     time.Time
}

// HealthInfo describes the running build and store for health responses.
type HealthInfo struct {
	Version       string
	Backend       string
	SchemaVersion int
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(store HealthChecker, schema SchemaCheck, hub *ws.Hub, log *logrus.Logger, info HealthInfo) *HealthHandler {
	return &HealthHandler{
		store:         store,
		schema:        schema,
		hub:           hub,
		log:           log,
		version:       info.Version,
		backend:       info.Backend,
		schemaVersion: info.SchemaVersion,
		startTime:     time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Backend       string  `json:"backend"`
	Database      string  `json:"database"`
	SchemaVersion int     `json:"schema_version,omitempty"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Backend:       h.backend,
		Database:      "connected",
		SchemaVersion: h.schemaVersion,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	} else {
		resp.Database = "not_configured"
	}

	if h.hub != nil {
		resp.WSClients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready and checks the store and its schema.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"database": "ok",
		"schema":   "ok",
	}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.store == nil {
		checks["database"] = "not_configured"
	} else if err := h.store.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database health check failed")
		checks["database"] = "error"
	}

	switch {
	case checks["database"] != "ok":
		checks["schema"] = "unknown"
	case h.schema != nil:
		if err := h.schema(ctx); err != nil {
			h.log.WithError(err).Error("readiness: schema check failed")
			checks["schema"] = "error"
		}
	}

	if checks["database"] != "ok" || checks["schema"] != "ok" {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}
