package models

import (
	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/trip"
)

// CreateTripResponse is the response body for POST /v1/trips.
type CreateTripResponse struct {
	TripID string    `json:"tripId"`
	View   trip.View `json:"view"`
}

// SelectVehicleRequest is the request body for POST /v1/trips/{tripId}/vehicle.
type SelectVehicleRequest struct {
	VehicleID string `json:"vehicleId"`
}

// SetLocationRequest is the request body for POST /v1/trips/{tripId}/locations.
type SetLocationRequest struct {
	End   string        `json:"end"`
	Place geocode.Place `json:"place"`
}

// EditParamsRequest is the request body for POST /v1/trips/{tripId}/parameters.
// All fields are optional; only the fields present are applied.
type EditParamsRequest struct {
	DistanceKm     *float64 `json:"distanceKm"`
	Traffic        *string  `json:"traffic"`
	TemperatureC   *float64 `json:"temperatureC"`
	BatteryPercent *float64 `json:"batteryPercent"`
}

// VehicleListResponse is the response body for GET /v1/vehicles.
type VehicleListResponse struct {
	Vehicles []trip.Vehicle `json:"vehicles"`
}

// SuggestResponse is the response body for GET /v1/geocode/suggest.
type SuggestResponse struct {
	Suggestions []geocode.Place `json:"suggestions"`
}
