// Package routing resolves a pair of free-text addresses into a driving route
// with a derived distance.
package routing

import (
	"context"
	"errors"

	"github.com/evrider/rideassist/internal/geocode"
)

// Sentinel errors for routing operations.
var (
	// ErrNoRoute indicates no drivable route exists between the given points.
	ErrNoRoute = errors.New("no route found between the given points")
	// ErrEngineUnavailable indicates the routing engine is down or unreachable.
	ErrEngineUnavailable = errors.New("routing engine unavailable")
)

// Leg is a single computed route leg.
type Leg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Engine defines the interface for driving-route engines.
type Engine interface {
	// Route computes a driving route between two coordinates.
	Route(ctx context.Context, from, to geocode.Coordinate) (*Leg, error)
	// Name returns the engine identifier for logging.
	Name() string
}

// Geocoder resolves an address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geocode.Coordinate, error)
}

// Route is a fully resolved trip route: both endpoints geocoded and the
// driving distance rounded to one decimal kilometre.
type Route struct {
	From       geocode.Coordinate `json:"from"`
	To         geocode.Coordinate `json:"to"`
	DistanceKm float64            `json:"distanceKm"`
}
