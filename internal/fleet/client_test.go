package fleet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrider/rideassist/internal/fleet"
	"github.com/evrider/rideassist/internal/geocode"
	"github.com/evrider/rideassist/internal/trip"
)

func newTestClient(serverURL string) *fleet.Client {
	return fleet.NewClient(fleet.ClientConfig{
		BaseURL:    serverURL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	})
}

func TestClient_ListVehicles_Envelopes(t *testing.T) {
	bodies := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":"v1","name":"Scooter 1"},{"id":"v2","name":"Scooter 2"},{"id":"v3","name":"Scooter 3"}]`},
		{"vehicles wrapper", `{"vehicles":[{"id":"v1","name":"Scooter 1"},{"id":"v2","name":"Scooter 2"},{"id":"v3","name":"Scooter 3"}]}`},
		{"data wrapper", `{"data":[{"id":"v1","name":"Scooter 1"},{"id":"v2","name":"Scooter 2"},{"id":"v3","name":"Scooter 3"}]}`},
	}

	for _, tc := range bodies {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/iotdata/vehicles", r.URL.Path)
				assert.Equal(t, "true", r.Header.Get("ngrok-skip-browser-warning"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			vehicles, err := newTestClient(server.URL).ListVehicles(context.Background())
			require.NoError(t, err)
			require.Len(t, vehicles, 3)
			assert.Equal(t, trip.Vehicle{ID: "v1", Name: "Scooter 1"}, vehicles[0])
			assert.Equal(t, trip.Vehicle{ID: "v2", Name: "Scooter 2"}, vehicles[1])
			assert.Equal(t, trip.Vehicle{ID: "v3", Name: "Scooter 3"}, vehicles[2])
		})
	}
}

func TestClient_ListVehicles_AlternateKeysAndScalars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"vehicleId":"v1","vehicleName":"Scooter 1"},
			{"vehicle_id":"v2","vehicle_name":"Scooter 2"},
			{"id":7,"vehicleNum":"KA-01-1234"},
			{"id":"v4"},
			"v5"
		]`))
	}))
	defer server.Close()

	vehicles, err := newTestClient(server.URL).ListVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 5)
	assert.Equal(t, trip.Vehicle{ID: "v1", Name: "Scooter 1"}, vehicles[0])
	assert.Equal(t, trip.Vehicle{ID: "v2", Name: "Scooter 2"}, vehicles[1])
	assert.Equal(t, trip.Vehicle{ID: "7", Name: "KA-01-1234"}, vehicles[2])
	assert.Equal(t, trip.Vehicle{ID: "v4", Name: "v4"}, vehicles[3])
	assert.Equal(t, trip.Vehicle{ID: "v5", Name: "v5"}, vehicles[4])
}

func TestClient_ListVehicles_UnknownShapeDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer server.Close()

	vehicles, err := newTestClient(server.URL).ListVehicles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestClient_ListVehicles_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListVehicles(context.Background())
	require.Error(t, err)
}

func TestClient_LatestTelemetry_DefaultCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/iotdata/vehicles/latest/veh-1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "12.9716", q.Get("fromLat"))
		assert.Equal(t, "77.5946", q.Get("fromLon"))
		assert.Equal(t, "19.076", q.Get("toLat"))
		assert.Equal(t, "72.8777", q.Get("toLon"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"distanceKms":120.5,"traffic":"Medium","temperature":28,"soc":75}`))
	}))
	defer server.Close()

	tel, err := newTestClient(server.URL).LatestTelemetry(context.Background(), "veh-1", trip.RouteEndpoints{})
	require.NoError(t, err)

	require.NotNil(t, tel.DistanceKm)
	assert.Equal(t, 120.5, *tel.DistanceKm)
	assert.Equal(t, trip.TrafficMedium, tel.Traffic)
	require.NotNil(t, tel.TemperatureC)
	assert.Equal(t, 28.0, *tel.TemperatureC)
	require.NotNil(t, tel.SOC)
	assert.Equal(t, 75.0, *tel.SOC)
}

func TestClient_LatestTelemetry_ChosenCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "13.0827", q.Get("fromLat"))
		assert.Equal(t, "80.2707", q.Get("fromLon"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	route := trip.RouteEndpoints{
		From: &geocode.Coordinate{Lat: 13.0827, Lon: 80.2707},
		To:   &geocode.Coordinate{Lat: 19.0760, Lon: 72.8777},
	}
	_, err := newTestClient(server.URL).LatestTelemetry(context.Background(), "veh-1", route)
	require.NoError(t, err)
}

func TestClient_LatestTelemetry_CandidateKeysAndDefaults(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		distance *float64
		traffic  trip.TrafficLevel
		temp     float64
		soc      *float64
	}{
		{
			name:     "alternate spellings",
			body:     `{"distanceKm":"88.5","trafficLevel":"high","ambientTemperature":"31","stateOfCharge":"64"}`,
			distance: floatPtr(88.5),
			traffic:  trip.TrafficHigh,
			temp:     31,
			soc:      floatPtr(64),
		},
		{
			name:    "empty snapshot gets defaults",
			body:    `{}`,
			traffic: trip.TrafficLow,
			temp:    25,
		},
		{
			name:    "unusable values fall through",
			body:    `{"distanceKms":"n/a","traffic":"gridlock","soc":null}`,
			traffic: trip.TrafficLow,
			temp:    25,
		},
		{
			name:    "pack temperature beats ambient readings",
			body:    `{"tempBms":5,"temperature":50}`,
			traffic: trip.TrafficLow,
			temp:    5,
		},
		{
			name:    "battery beats stateOfCharge",
			body:    `{"battery":60,"stateOfCharge":80}`,
			traffic: trip.TrafficLow,
			temp:    25,
			soc:     floatPtr(60),
		},
		{
			name:     "distanceKm beats distanceKms",
			body:     `{"distanceKm":12,"distanceKms":99}`,
			distance: floatPtr(12),
			traffic:  trip.TrafficLow,
			temp:     25,
		},
		{
			name:     "planned distance recognized",
			body:     `{"plannedDistanceKm":42,"socBeforeTrip":58}`,
			distance: floatPtr(42),
			traffic:  trip.TrafficLow,
			temp:     25,
			soc:      floatPtr(58),
		},
		{
			name:     "first candidate key wins",
			body:     `{"distance":10,"distanceKms":99,"soc":50,"currentSoc":90,"ambientTemp":30}`,
			distance: floatPtr(10),
			traffic:  trip.TrafficLow,
			temp:     30,
			soc:      floatPtr(50),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			tel, err := newTestClient(server.URL).LatestTelemetry(context.Background(), "veh-1", trip.RouteEndpoints{})
			require.NoError(t, err)

			if tc.distance == nil {
				assert.Nil(t, tel.DistanceKm)
			} else {
				require.NotNil(t, tel.DistanceKm)
				assert.Equal(t, *tc.distance, *tel.DistanceKm)
			}
			assert.Equal(t, tc.traffic, tel.Traffic)
			require.NotNil(t, tel.TemperatureC)
			assert.Equal(t, tc.temp, *tel.TemperatureC)
			if tc.soc == nil {
				assert.Nil(t, tel.SOC)
			} else {
				require.NotNil(t, tel.SOC)
				assert.Equal(t, *tc.soc, *tel.SOC)
			}
		})
	}
}

func TestClient_Predict_WireMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/iotdata/vehicles/prediction/veh-1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("distanceKms"))
		assert.Equal(t, "25", q.Get("temperature"))
		assert.Equal(t, "Low", q.Get("traffic"))
		assert.Equal(t, "80", q.Get("soc"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"vehicleId":"veh-1",
			"socBeforeTrip":80,
			"socAfterTrip":10,
			"estimatedTimeHours":2.5,
			"distanceKms":100,
			"kmPossibleNow":114.3,
			"kmPossibleAfterTrip":14.3,
			"rechargeRequiredAtKm":114.3,
			"safeToGo":false,
			"willReachDestination":true,
			"cellImbalenceDetected":true
		}`))
	}))
	defer server.Close()

	pred, err := newTestClient(server.URL).Predict(context.Background(), "veh-1", trip.Params{
		DistanceKm:     100,
		Traffic:        trip.TrafficLow,
		TemperatureC:   floatPtr(25),
		BatteryPercent: 80,
	})
	require.NoError(t, err)
	require.NotNil(t, pred)

	assert.Equal(t, "veh-1", pred.VehicleID)
	assert.Equal(t, 80.0, pred.SOCBeforeTrip)
	assert.Equal(t, 10.0, pred.SOCAfterTrip)
	assert.Equal(t, 2.5, pred.EstimatedTimeHours)
	assert.Equal(t, 100.0, pred.DistanceKm)
	assert.Equal(t, 114.3, pred.FullRangeKm)
	assert.Equal(t, 14.3, pred.RangeAfterTripKm)
	assert.Equal(t, 114.3, pred.RechargeRequiredAtKm)
	assert.False(t, pred.SafeToGo)
	assert.True(t, pred.WillReachDestination)
	assert.True(t, pred.CellImbalanceDetected, "misspelled wire field should map to the canonical flag")
}

func TestClient_Predict_AlternateFieldNamesAndDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		// Empty params fall back to the backend's historical defaults.
		assert.Equal(t, "50", q.Get("distanceKms"))
		assert.Equal(t, "25", q.Get("temperature"))
		assert.Equal(t, "Low", q.Get("traffic"))
		assert.Equal(t, "100", q.Get("soc"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"estimatedTime":1.25,"rechargeNeededAtKm":140,"socBeforeTrip":100}`))
	}))
	defer server.Close()

	pred, err := newTestClient(server.URL).Predict(context.Background(), "veh-9", trip.Params{})
	require.NoError(t, err)

	assert.Equal(t, "veh-9", pred.VehicleID, "missing wire id falls back to the requested vehicle")
	assert.Equal(t, 1.25, pred.EstimatedTimeHours)
	assert.Equal(t, 140.0, pred.RechargeRequiredAtKm)
}

func TestClient_Predict_EmptyResponseIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Predict(context.Background(), "veh-1", trip.Params{BatteryPercent: 80})
	require.Error(t, err)
}

func floatPtr(v float64) *float64 {
	return &v
}
