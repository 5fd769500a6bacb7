// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Data sources the server can read trips and ledgers from.
const (
	SourcePostgres = "postgres"
	SourceREST     = "rest"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Source selects the backing store: "postgres" (default) or "rest".
	Source string

	// DatabaseURL is the Postgres connection string. Required for the postgres source.
	DatabaseURL string

	// FleetAPIURL is the base URL of the fleet backend. Required for the rest source.
	FleetAPIURL string

	// FleetAPITimeout bounds each call to the fleet backend. Defaults to 10s.
	FleetAPITimeout time.Duration

	// SessionIdleTTL drops a driver's cached state after this long without a
	// request. Defaults to 30m.
	SessionIdleTTL time.Duration

	// JWTSecret verifies bearer tokens. Required.
	JWTSecret string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations at boot (postgres source only).
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first value that fails to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Source:      strings.ToLower(getEnv("SOURCE", SourcePostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FleetAPIURL: os.Getenv("FLEET_API_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.FleetAPITimeout, err = time.ParseDuration(getEnv("FLEET_API_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("FLEET_API_TIMEOUT: %w", err)
	}
	if cfg.SessionIdleTTL, err = time.ParseDuration(getEnv("SESSION_IDLE_TTL", "30m")); err != nil || cfg.SessionIdleTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_IDLE_TTL: must be a positive duration")
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: must be a positive integer")
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false")); err != nil {
		return Config{}, fmt.Errorf("MIGRATE_ON_START: %w", err)
	}

	var missing []string
	switch cfg.Source {
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case SourceREST:
		if cfg.FleetAPIURL == "" {
			missing = append(missing, "FLEET_API_URL")
		}
	default:
		return Config{}, fmt.Errorf("SOURCE: unknown source %q (want %s or %s)", cfg.Source, SourcePostgres, SourceREST)
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
