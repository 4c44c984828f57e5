package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/evrider/rideassist/internal/api/models"
	"github.com/evrider/rideassist/internal/api/response"
	"github.com/evrider/rideassist/internal/trip"
)

// VehicleLister fetches the vehicle roster.
type VehicleLister interface {
	ListVehicles(ctx context.Context) ([]trip.Vehicle, error)
}

// VehicleHandler handles the vehicle roster endpoint.
type VehicleHandler struct {
	fleet  VehicleLister
	logger zerolog.Logger
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(fleet VehicleLister, logger zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{fleet: fleet, logger: logger}
}

// ListVehicles handles GET /v1/vehicles - vehicle roster for the selector.
// A backend failure degrades to an empty roster so the dashboard still loads.
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.fleet.ListVehicles(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("vehicle roster unavailable, serving empty list")
		vehicles = []trip.Vehicle{}
	}
	if vehicles == nil {
		vehicles = []trip.Vehicle{}
	}

	response.JSON(w, r, http.StatusOK, models.VehicleListResponse{Vehicles: vehicles})
}
