// Package config loads the service configuration from an optional JSON file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment overrides, e.g.
// RIDEASSIST_SERVER__PORT=9090 sets server.port.
const envPrefix = "RIDEASSIST_"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Fleet     FleetConfig     `json:"fleet"`
	Geocoding GeocodingConfig `json:"geocoding"`
	Routing   RoutingConfig   `json:"routing"`
	Logging   LoggingConfig   `json:"logging"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `json:"port"`
}

// FleetConfig holds the fleet backend endpoints. The remote endpoint is the
// normal target; the local one is for development against a LAN instance.
type FleetConfig struct {
	UseLocalServer bool   `json:"useLocalServer"`
	LocalBaseURL   string `json:"localBaseUrl"`
	RemoteBaseURL  string `json:"remoteBaseUrl"`
}

// BaseURL returns the backend base URL the client should target.
func (c FleetConfig) BaseURL() string {
	if c.UseLocalServer {
		return c.LocalBaseURL
	}
	return c.RemoteBaseURL
}

// GeocodingConfig holds the geocoding provider settings.
type GeocodingConfig struct {
	NominatimURL string `json:"nominatimUrl"`
}

// RoutingConfig holds the routing engine settings.
type RoutingConfig struct {
	OSRMURL string `json:"osrmUrl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

// TelemetryConfig holds OpenTelemetry exporter settings.
type TelemetryConfig struct {
	Enabled      bool   `json:"enabled"`
	OTLPEndpoint string `json:"otlpEndpoint"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Fleet: FleetConfig{
			LocalBaseURL:  "http://192.168.68.133:8088",
			RemoteBaseURL: "https://nonteleological-brimfully-reid.ngrok-free.dev",
		},
		Geocoding: GeocodingConfig{NominatimURL: "https://nominatim.openstreetmap.org"},
		Routing:   RoutingConfig{OSRMURL: "https://router.project-osrm.org"},
		Logging:   LoggingConfig{Level: "info"},
		Telemetry: TelemetryConfig{OTLPEndpoint: "localhost:4317"},
	}
}

// Load reads configuration from the JSON file at path (skipped when path is
// empty or the file does not exist) and applies environment overrides on top
// of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Fleet.BaseURL() == "" {
		return fmt.Errorf("fleet base url is required")
	}
	if c.Geocoding.NominatimURL == "" {
		return fmt.Errorf("nominatim url is required")
	}
	if c.Routing.OSRMURL == "" {
		return fmt.Errorf("osrm url is required")
	}
	return nil
}
