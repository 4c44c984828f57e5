package osrm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/routing"
	"github.com/evrider/rideassist/internal/routing/osrm"
)

func newTestClient(serverURL string) *osrm.Client {
	return osrm.NewClient(osrm.ClientConfig{
		BaseURL:    serverURL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	})
}

func TestClient_Route(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OSRM takes lon,lat pairs in the path.
		assert.Equal(t, "/route/v1/driving/77.594600,12.971600;72.877700,19.076000", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("overview"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":981264.5,"duration":43120.8}]}`))
	}))
	defer server.Close()

	leg, err := newTestClient(server.URL).Route(context.Background(),
		geocode.Coordinate{Lat: 12.9716, Lon: 77.5946},
		geocode.Coordinate{Lat: 19.0760, Lon: 72.8777},
	)
	require.NoError(t, err)
	require.NotNil(t, leg)

	assert.Equal(t, 981264.5, leg.DistanceMeters)
	assert.Equal(t, 43120.8, leg.DurationSeconds)
}

func TestClient_Route_NoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Route(context.Background(),
		geocode.Coordinate{Lat: 12.9716, Lon: 77.5946},
		geocode.Coordinate{Lat: 19.0760, Lon: 72.8777},
	)
	require.ErrorIs(t, err, routing.ErrNoRoute)
}

func TestClient_Route_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Route(context.Background(),
		geocode.Coordinate{Lat: 12.9716, Lon: 77.5946},
		geocode.Coordinate{Lat: 19.0760, Lon: 72.8777},
	)
	require.ErrorIs(t, err, routing.ErrEngineUnavailable)
}
