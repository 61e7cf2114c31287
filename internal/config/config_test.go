package config

import (
	"testing"
	"time"

	"newsdesk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BACKEND_URL", "REQUEST_TIMEOUT", "PORT", "REFRESH_INTERVAL",
		"HOME_HISTORY_LIMIT", "DASHBOARD_HISTORY_LIMIT", "TOAST_TTL", "PPROF_ENABLED"} {
		t.Setenv(key, "")
	}
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 5, cfg.Dashboard.HomeHistoryLimit)
	assert.Equal(t, 10, cfg.Dashboard.DashboardHistoryLimit)
	assert.Equal(t, 5*time.Second, cfg.Notify.TTL)
	assert.Equal(t, time.UTC, cfg.Dashboard.Location)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://classifier.internal:9000/")
	t.Setenv("REFRESH_INTERVAL", "45s")
	t.Setenv("HOME_HISTORY_LIMIT", "3")
	t.Setenv("TOAST_TTL", "2s")
	t.Setenv("TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://classifier.internal:9000", cfg.Backend.URL)
	assert.Equal(t, 45*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 3, cfg.Dashboard.HomeHistoryLimit)
	assert.Equal(t, 2*time.Second, cfg.Notify.TTL)
	assert.Equal(t, "Europe/Berlin", cfg.Dashboard.Location.String())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative backend", "BACKEND_URL", "localhost:5000"},
		{"bad scheme", "BACKEND_URL", "ftp://host"},
		{"unknown zone", "TIMEZONE", "Mars/Olympus_Mons"},
		{"sub-second refresh", "REFRESH_INTERVAL", "200ms"},
		{"zero limit", "DASHBOARD_HISTORY_LIMIT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TIMEZONE", "UTC")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
