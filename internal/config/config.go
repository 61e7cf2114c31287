package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Backend   BackendConfig
	Server    ServerConfig
	Dashboard DashboardConfig
	Notify    NotifyConfig
	Logging   LoggingConfig
	Profiling ProfilingConfig
}

// BackendConfig points at the classifier service
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DashboardConfig holds refresh and table settings
type DashboardConfig struct {
	RefreshInterval       time.Duration
	HomeHistoryLimit      int
	DashboardHistoryLimit int
	Timezone              string
	Location              *time.Location
}

// NotifyConfig holds notification settings
type NotifyConfig struct {
	TTL time.Duration
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Backend:   *loadBackendConfig(),
		Server:    *loadServerConfig(),
		Notify:    NotifyConfig{TTL: getEnvDurationOrDefault("TOAST_TTL", 5*time.Second)},
		Logging:   LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Profiling: *loadProfilingConfig(),
	}

	dashboardConfig, err := loadDashboardConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard configuration")
	}
	config.Dashboard = *dashboardConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadBackendConfig() *BackendConfig {
	return &BackendConfig{
		URL:     strings.TrimRight(getEnvOrDefault("BACKEND_URL", "http://localhost:5000"), "/"),
		Timeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDashboardConfig() (*DashboardConfig, error) {
	tz := getEnvOrDefault("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.ConfigInvalid("TIMEZONE is not a known zone: " + tz)
	}

	return &DashboardConfig{
		RefreshInterval:       getEnvDurationOrDefault("REFRESH_INTERVAL", 30*time.Second),
		HomeHistoryLimit:      getEnvIntOrDefault("HOME_HISTORY_LIMIT", 5),
		DashboardHistoryLimit: getEnvIntOrDefault("DASHBOARD_HISTORY_LIMIT", 10),
		Timezone:              tz,
		Location:              loc,
	}, nil
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	u, err := url.Parse(config.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigInvalid("BACKEND_URL must be an absolute http(s) URL")
	}
	if config.Backend.Timeout <= 0 {
		return errors.ConfigInvalid("REQUEST_TIMEOUT must be positive")
	}
	if config.Dashboard.RefreshInterval < time.Second {
		return errors.ConfigInvalid("REFRESH_INTERVAL must be at least 1s")
	}
	if config.Dashboard.HomeHistoryLimit <= 0 || config.Dashboard.DashboardHistoryLimit <= 0 {
		return errors.ConfigInvalid("history limits must be positive")
	}
	if config.Notify.TTL <= 0 {
		return errors.ConfigInvalid("TOAST_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
