// Package main provides the entrypoint for the RideAssist API server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/evrider/rideassist/internal/api"
	"github.com/evrider/rideassist/internal/config"
	"github.com/evrider/rideassist/internal/fleet"
	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/geocode/nominatim"
	"github.com/evrider/rideassist/internal/routing"
	"github.com/evrider/rideassist/internal/routing/osrm"
	"github.com/evrider/rideassist/internal/telemetry"
	"github.com/evrider/rideassist/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "rideassist-api"

	configPath := flag.String("config", "config.json", "path to the configuration file")
	flag.Parse()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		log = log.Level(level)
	}
	if cfg.Logging.Pretty {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting RideAssist API")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize the geocoding provider and service
	nominatimClient := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL: cfg.Geocoding.NominatimURL,
		Logger:  log,
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatimClient,
		Logger:   log,
	})
	log.Info().Str("nominatim_url", cfg.Geocoding.NominatimURL).Msg("geocoding service initialized")

	// Initialize the routing engine and resolver
	osrmClient := osrm.NewClient(osrm.ClientConfig{
		BaseURL: cfg.Routing.OSRMURL,
		Logger:  log,
	})
	routeResolver := routing.NewResolver(routing.ResolverConfig{
		Engine:   osrmClient,
		Geocoder: geocodeService,
		Logger:   log,
	})
	log.Info().Str("osrm_url", cfg.Routing.OSRMURL).Msg("route resolver initialized")

	// Initialize the fleet backend client
	fleetClient := fleet.NewClient(fleet.ClientConfig{
		BaseURL: cfg.Fleet.BaseURL(),
		Logger:  log,
	})
	log.Info().
		Str("base_url", cfg.Fleet.BaseURL()).
		Bool("local_server", cfg.Fleet.UseLocalServer).
		Msg("fleet backend client initialized")

	// Initialize the trip session manager
	tripManager := trip.NewManager(trip.ManagerConfig{
		Planner: trip.PlannerConfig{
			Backend:  fleetClient,
			Resolver: routeResolver,
			Logger:   log,
		},
		Logger: log,
	})
	log.Info().Msg("trip session manager initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		GeocodeService: geocodeService,
		Fleet:          fleetClient,
		TripManager:    tripManager,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
