package handlers

import (
	"log/slog"
	"net/http"

	"github.com/taskwire/taskwire/pkg/api"
)

// HealthHandler serves the health check endpoint
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler creates a new handler for health checks
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}, http.StatusOK)
}
