// Package trip implements the trip-range prediction workflow: per-session
// orchestration of vehicle selection, telemetry auto-fill, route resolution
// and prediction, with a local fallback estimate when the backend is down.
package trip

import (
	"context"
	"errors"

	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/routing"
)

// Validation errors surfaced to the user on a manual prediction trigger.
var (
	// ErrNoVehicle indicates no vehicle has been selected yet.
	ErrNoVehicle = errors.New("select a vehicle first")
	// ErrMissingLocations indicates one or both trip endpoints are unset.
	ErrMissingLocations = errors.New("both from and to locations are required")
)

// TrafficLevel is the expected traffic along the trip.
type TrafficLevel string

// Recognized traffic levels.
const (
	TrafficLow    TrafficLevel = "Low"
	TrafficMedium TrafficLevel = "Medium"
	TrafficHigh   TrafficLevel = "High"
)

// Valid reports whether l is a recognized traffic level.
func (l TrafficLevel) Valid() bool {
	switch l {
	case TrafficLow, TrafficMedium, TrafficHigh:
		return true
	}
	return false
}

// Vehicle is a roster entry.
type Vehicle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Params are the trip parameters a prediction is computed from. A zero
// DistanceKm or BatteryPercent, empty Traffic, or nil TemperatureC means the
// field has not been filled yet.
type Params struct {
	DistanceKm     float64      `json:"distanceKm"`
	Traffic        TrafficLevel `json:"traffic"`
	TemperatureC   *float64     `json:"temperatureC"`
	BatteryPercent float64      `json:"batteryPercent"`
}

// Complete reports whether all four parameters are filled, with distance and
// battery strictly positive. Only then may a prediction be triggered
// automatically.
func (p Params) Complete() bool {
	return p.DistanceKm > 0 &&
		p.Traffic != "" &&
		p.TemperatureC != nil &&
		p.BatteryPercent > 0
}

// RouteEndpoints are the From/To points used for telemetry requests and
// route display. Either side may be unset.
type RouteEndpoints struct {
	From *geocode.Coordinate `json:"from"`
	To   *geocode.Coordinate `json:"to"`
}

// Telemetry is the latest normalized measurement snapshot for a vehicle.
// Traffic and TemperatureC always carry a value (the gateway defaults them);
// DistanceKm and SOC are nil when the backend did not report them.
type Telemetry struct {
	DistanceKm   *float64
	Traffic      TrafficLevel
	TemperatureC *float64
	SOC          *float64
}

// Prediction is the canonical prediction result. It has the same shape
// whether it came from the backend or from the local estimator, so rendering
// is source-agnostic.
type Prediction struct {
	VehicleID             string  `json:"vehicleId"`
	SOCBeforeTrip         float64 `json:"socBeforeTrip"`
	SOCAfterTrip          float64 `json:"socAfterTrip"`
	EstimatedTimeHours    float64 `json:"estimatedTimeHours"`
	DistanceKm            float64 `json:"distanceKm"`
	FullRangeKm           float64 `json:"fullRangeKm"`
	RangeAfterTripKm      float64 `json:"rangeAfterTripKm"`
	RechargeRequiredAtKm  float64 `json:"rechargeRequiredAtKm"`
	SafeToGo              bool    `json:"safeToGo"`
	WillReachDestination  bool    `json:"willReachDestination"`
	CellImbalanceDetected bool    `json:"cellImbalanceDetected"`
}

// Backend is the fleet data gateway the planner talks to.
type Backend interface {
	// LatestTelemetry fetches the latest normalized snapshot for a vehicle.
	LatestTelemetry(ctx context.Context, vehicleID string, route RouteEndpoints) (Telemetry, error)
	// Predict requests a trip prediction from the backend.
	Predict(ctx context.Context, vehicleID string, params Params) (*Prediction, error)
}

// RouteResolver resolves a pair of addresses into a route with a distance.
type RouteResolver interface {
	Resolve(ctx context.Context, fromAddress, toAddress string) (*routing.Route, error)
}
