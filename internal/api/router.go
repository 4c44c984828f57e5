// Package api provides the HTTP API for RideAssist.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/evrider/rideassist/internal/api/handler"
	"github.com/evrider/rideassist/internal/api/middleware"
	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	GeocodeService *geocode.Service
	Fleet          handler.VehicleLister
	TripManager    *trip.Manager
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeService)
	vehicleHandler := handler.NewVehicleHandler(cfg.Fleet, cfg.Logger)
	tripHandler := handler.NewTripHandler(cfg.TripManager)

	suggestRateLimit := middleware.RateLimitByIP(middleware.SuggestRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Typeahead suggestions hit a public upstream, keep them throttled.
		r.With(suggestRateLimit).Get("/geocode/suggest", geocodeHandler.Suggest)

		r.With(standardRateLimit).Get("/vehicles", vehicleHandler.ListVehicles)

		r.Route("/trips", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Post("/", tripHandler.CreateTrip)
			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Post("/vehicle", tripHandler.SelectVehicle)
				r.Post("/locations", tripHandler.SetLocation)
				r.Post("/parameters", tripHandler.EditParams)
				r.Post("/predict", tripHandler.Predict)
				r.Post("/edit", tripHandler.EnterEditMode)
			})
		})
	})

	return r
}
