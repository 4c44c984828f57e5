// Package fleet provides the client for the fleet telemetry backend: vehicle
// roster, latest telemetry snapshots and trip predictions.
package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/provider/resilience"
	"github.com/evrider/rideassist/internal/trip"
)

const (
	// ProviderName identifies the fleet backend.
	ProviderName = "fleet-backend"

	// apiPrefix is the backend's IoT data route prefix.
	apiPrefix = "/api/iotdata"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// Reference coordinates used for telemetry requests before the user has
// picked trip endpoints (Bangalore to Mumbai), so the request is never
// malformed.
var (
	DefaultFrom = geocode.Coordinate{Lat: 12.9716, Lon: 77.5946}
	DefaultTo   = geocode.Coordinate{Lat: 19.0760, Lon: 72.8777}
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the fleet backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (required).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a fleet backend API client. It implements trip.Backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new fleet backend client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// get issues a GET against the backend with the headers every call carries.
// The bypass header keeps tunnelling proxies from answering with an
// interstitial page instead of JSON.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("ngrok-skip-browser-warning", "true")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return body, nil
}

// ListVehicles fetches the vehicle roster. The backend has been seen to wrap
// the list three different ways (bare array, {vehicles:[...]}, {data:[...]});
// all normalize to one flat list. An unrecognized shape normalizes to an
// empty list with a warning rather than an error.
func (c *Client) ListVehicles(ctx context.Context) ([]trip.Vehicle, error) {
	body, err := c.get(ctx, c.baseURL+apiPrefix+"/vehicles")
	if err != nil {
		return nil, fmt.Errorf("fetching vehicle roster: %w", err)
	}

	entries, ok := unwrapRoster(body)
	if !ok {
		c.logger.Warn().
			Str("body", truncate(string(body), 200)).
			Msg("unexpected vehicle roster shape, treating as empty")
		return []trip.Vehicle{}, nil
	}

	vehicles := make([]trip.Vehicle, 0, len(entries))
	for i, raw := range entries {
		v, ok := decodeVehicle(raw, i)
		if !ok {
			c.logger.Warn().Int("index", i).Msg("skipping undecodable roster entry")
			continue
		}
		vehicles = append(vehicles, v)
	}

	c.logger.Debug().Int("count", len(vehicles)).Msg("vehicle roster fetched")
	return vehicles, nil
}

// LatestTelemetry fetches the latest snapshot for a vehicle. The request
// carries the current trip endpoints, falling back to the reference
// coordinates when none are chosen yet.
func (c *Client) LatestTelemetry(ctx context.Context, vehicleID string, route trip.RouteEndpoints) (trip.Telemetry, error) {
	from := DefaultFrom
	if route.From != nil {
		from = *route.From
	}
	to := DefaultTo
	if route.To != nil {
		to = *route.To
	}

	requestURL := fmt.Sprintf("%s%s/vehicles/latest/%s?fromLat=%v&fromLon=%v&toLat=%v&toLon=%v",
		c.baseURL, apiPrefix, url.PathEscape(vehicleID), from.Lat, from.Lon, to.Lat, to.Lon)

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return trip.Telemetry{}, fmt.Errorf("fetching latest telemetry: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return trip.Telemetry{}, fmt.Errorf("decoding telemetry: %w", err)
	}

	return normalizeTelemetry(fields), nil
}

// Predict requests a trip prediction. The query carries the trip parameters
// with the backend's historical defaults for anything still empty.
func (c *Client) Predict(ctx context.Context, vehicleID string, params trip.Params) (*trip.Prediction, error) {
	distance := params.DistanceKm
	if distance <= 0 {
		distance = 50
	}
	temperature := 25.0
	if params.TemperatureC != nil {
		temperature = *params.TemperatureC
	}
	traffic := params.Traffic
	if traffic == "" {
		traffic = trip.TrafficLow
	}
	soc := params.BatteryPercent
	if soc <= 0 {
		soc = 100
	}

	requestURL := fmt.Sprintf("%s%s/vehicles/prediction/%s?distanceKms=%v&temperature=%v&traffic=%s&soc=%v",
		c.baseURL, apiPrefix, url.PathEscape(vehicleID), distance, temperature, traffic, soc)

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("fetching prediction: %w", err)
	}

	var wire predictionResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}

	// An empty object is a silent backend failure, not a prediction.
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) == 0 {
		return nil, fmt.Errorf("empty prediction response")
	}

	return wire.toPrediction(vehicleID), nil
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
