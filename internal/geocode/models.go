// Package geocode resolves free-text place names to coordinates and
// suggestion lists via an external geocoding provider.
package geocode

import (
	"context"
	"errors"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNotFound indicates the query matched no known place. It is distinct
	// from a transport failure: the provider answered, just with nothing.
	ErrNotFound = errors.New("no matching place found")
	// ErrProviderUnavailable indicates the geocoding provider could not be reached.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a single geocoding candidate.
type Place struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	PlaceID     int64   `json:"placeId"`
}

// Coordinate returns the place location as a Coordinate.
func (p Place) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lon: p.Lon}
}

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Search returns candidate places for a free-text query, in the
	// provider's relevance order.
	Search(ctx context.Context, query string) ([]Place, error)
	// Name returns the provider identifier for logging.
	Name() string
}
