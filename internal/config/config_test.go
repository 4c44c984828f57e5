package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Fleet.UseLocalServer)
	assert.Equal(t, "https://nonteleological-brimfully-reid.ngrok-free.dev", cfg.Fleet.BaseURL())
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoding.NominatimURL)
	assert.Equal(t, "https://router.project-osrm.org", cfg.Routing.OSRMURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"server": {"port": 9090},
		"fleet": {"useLocalServer": true, "localBaseUrl": "http://10.0.0.5:8088"},
		"logging": {"level": "debug"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Fleet.UseLocalServer)
	assert.Equal(t, "http://10.0.0.5:8088", cfg.Fleet.BaseURL())
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://router.project-osrm.org", cfg.Routing.OSRMURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"port": 9090}}`), 0o600))

	t.Setenv("RIDEASSIST_SERVER__PORT", "7070")
	t.Setenv("RIDEASSIST_ROUTING__OSRMURL", "http://osrm.internal:5000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http://osrm.internal:5000", cfg.Routing.OSRMURL)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"missing fleet url", func(c *Config) { c.Fleet.RemoteBaseURL = "" }},
		{"missing nominatim url", func(c *Config) { c.Geocoding.NominatimURL = "" }},
		{"missing osrm url", func(c *Config) { c.Routing.OSRMURL = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFleetConfig_BaseURL(t *testing.T) {
	cfg := FleetConfig{
		UseLocalServer: false,
		LocalBaseURL:   "http://local:8088",
		RemoteBaseURL:  "https://remote.example.com",
	}
	assert.Equal(t, "https://remote.example.com", cfg.BaseURL())

	cfg.UseLocalServer = true
	assert.Equal(t, "http://local:8088", cfg.BaseURL())
}
