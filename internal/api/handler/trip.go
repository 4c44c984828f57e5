package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evrider/rideassist/internal/api/models"
	"github.com/evrider/rideassist/internal/api/response"
	"github.com/evrider/rideassist/internal/trip"
)

// TripHandler handles trip planning session endpoints.
type TripHandler struct {
	manager *trip.Manager
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(manager *trip.Manager) *TripHandler {
	return &TripHandler{manager: manager}
}

// CreateTrip handles POST /v1/trips - start a new planning session.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	id, planner := h.manager.Create()

	body := models.CreateTripResponse{
		TripID: id,
		View:   planner.Snapshot(),
	}
	response.Created(w, r, fmt.Sprintf("/v1/trips/%s", id), body)
}

// GetTrip handles GET /v1/trips/{tripId} - current session view.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	planner, ok := h.planner(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, planner.Snapshot())
}

// SelectVehicle handles POST /v1/trips/{tripId}/vehicle - pick or clear the
// vehicle. Selecting a vehicle auto-fills parameters from its telemetry and
// may trigger a prediction when everything is already in place.
func (h *TripHandler) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	planner, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.SelectVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	planner.SelectVehicle(r.Context(), input.VehicleID)
	response.JSON(w, r, http.StatusOK, planner.Snapshot())
}

// SetLocation handles POST /v1/trips/{tripId}/locations - record a chosen
// place for one endpoint. Setting the second endpoint resolves the route and
// fills the trip distance.
func (h *TripHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	planner, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.SetLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	end := trip.End(input.End)
	if end != trip.EndFrom && end != trip.EndTo {
		response.BadRequest(w, r, "end must be \"from\" or \"to\"", []models.FieldError{
			{Field: "end", Message: "must be \"from\" or \"to\""},
		})
		return
	}
	if input.Place.DisplayName == "" {
		response.BadRequest(w, r, "place.displayName is required", []models.FieldError{
			{Field: "place.displayName", Message: "is required"},
		})
		return
	}

	planner.SetLocation(r.Context(), end, input.Place)
	response.JSON(w, r, http.StatusOK, planner.Snapshot())
}

// EditParams handles POST /v1/trips/{tripId}/parameters - apply form edits.
// Completing the parameters schedules a debounced automatic prediction.
func (h *TripHandler) EditParams(w http.ResponseWriter, r *http.Request) {
	planner, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.EditParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	edit := trip.FieldEdit{
		DistanceKm:     input.DistanceKm,
		TemperatureC:   input.TemperatureC,
		BatteryPercent: input.BatteryPercent,
	}
	if input.Traffic != nil {
		level := trip.TrafficLevel(*input.Traffic)
		if !level.Valid() {
			response.BadRequest(w, r, "traffic must be Low, Medium or High", []models.FieldError{
				{Field: "traffic", Message: "must be Low, Medium or High"},
			})
			return
		}
		edit.Traffic = &level
	}

	planner.EditParams(r.Context(), edit)
	response.JSON(w, r, http.StatusOK, planner.Snapshot())
}

// Predict handles POST /v1/trips/{tripId}/predict - manual prediction
// trigger. Missing prerequisites yield a validation error.
func (h *TripHandler) Predict(w http.ResponseWriter, r *http.Request) {
	planner, ok := h.planner(w, r)
	if !ok {
		return
	}

	if err := planner.Predict(r.Context()); err != nil {
		if errors.Is(err, trip.ErrNoVehicle) || errors.Is(err, trip.ErrMissingLocations) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "prediction failed")
		return
	}

	response.JSON(w, r, http.StatusOK, planner.Snapshot())
}

// EnterEditMode handles POST /v1/trips/{tripId}/edit - re-open the parameter
// form while keeping the current result visible.
func (h *TripHandler) EnterEditMode(w http.ResponseWriter, r *http.Request) {
	planner, ok := h.planner(w, r)
	if !ok {
		return
	}

	planner.EnterEditMode()
	response.JSON(w, r, http.StatusOK, planner.Snapshot())
}

// planner resolves the session from the tripId URL parameter, writing the
// error response when it cannot.
func (h *TripHandler) planner(w http.ResponseWriter, r *http.Request) (*trip.Planner, bool) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return nil, false
	}

	planner, ok := h.manager.Get(tripID)
	if !ok {
		response.NotFound(w, r, "trip session not found")
		return nil, false
	}
	return planner, true
}
