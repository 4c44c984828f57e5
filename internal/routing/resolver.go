package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// ResolverConfig holds configuration for the route resolver.
type ResolverConfig struct {
	// Geocoder resolves the from/to addresses.
	Geocoder Geocoder

	// Engine computes the driving route.
	Engine Engine

	// Logger for resolver operations.
	Logger zerolog.Logger
}

// Resolver geocodes both trip endpoints and computes the driving distance
// between them.
type Resolver struct {
	geocoder Geocoder
	engine   Engine
	logger   zerolog.Logger
}

// NewResolver creates a new route resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		geocoder: cfg.Geocoder,
		engine:   cfg.Engine,
		logger:   cfg.Logger,
	}
}

// Resolve geocodes both addresses and computes the driving-route distance.
// If either geocode fails the error is returned without partial results, so
// callers keep their prior route state. Distance is rounded to one decimal
// place of kilometres.
func (r *Resolver) Resolve(ctx context.Context, fromAddress, toAddress string) (*Route, error) {
	from, err := r.geocoder.Geocode(ctx, fromAddress)
	if err != nil {
		return nil, fmt.Errorf("resolving origin: %w", err)
	}

	to, err := r.geocoder.Geocode(ctx, toAddress)
	if err != nil {
		return nil, fmt.Errorf("resolving destination: %w", err)
	}

	leg, err := r.engine.Route(ctx, from, to)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("engine", r.engine.Name()).
			Float64("from_lat", from.Lat).
			Float64("from_lon", from.Lon).
			Float64("to_lat", to.Lat).
			Float64("to_lon", to.Lon).
			Msg("route computation failed")
		return nil, err
	}

	km := math.Round(leg.DistanceMeters/1000*10) / 10

	r.logger.Debug().
		Str("from", fromAddress).
		Str("to", toAddress).
		Float64("distance_km", km).
		Msg("route resolved")

	return &Route{From: from, To: to, DistanceKm: km}, nil
}
