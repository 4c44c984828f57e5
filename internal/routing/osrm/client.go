// Package osrm provides a client for the OSRM route service.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/provider/resilience"
	"github.com/evrider/rideassist/internal/routing"
)

const (
	// EngineName identifies this routing engine.
	EngineName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM route API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(EngineName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the engine name.
func (c *Client) Name() string {
	return EngineName
}

// Route computes a driving route between two coordinates.
// OSRM expects lon,lat ordering in the path.
func (c *Client) Route(ctx context.Context, from, to geocode.Coordinate) (*routing.Leg, error) {
	routeURL := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, routeURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", routing.ErrEngineUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %w", resp.StatusCode, routing.ErrEngineUnavailable)
	}

	var out routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if out.Code != "Ok" || len(out.Routes) == 0 {
		return nil, fmt.Errorf("osrm code %q: %w", out.Code, routing.ErrNoRoute)
	}

	c.logger.Debug().
		Float64("distance_m", out.Routes[0].Distance).
		Float64("duration_s", out.Routes[0].Duration).
		Msg("received route from OSRM")

	return &routing.Leg{
		DistanceMeters:  out.Routes[0].Distance,
		DurationSeconds: out.Routes[0].Duration,
	}, nil
}

// routeResponse is the OSRM wire format.
type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}
