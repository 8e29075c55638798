// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration values for the companion server and the CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// APIBaseURL is the root of the remote HOS API, without the /api suffix. Required.
	APIBaseURL string

	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend selects where the session is persisted: memory, postgres
	// or redis. Defaults to "memory".
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for the postgres backend.
	DatabaseURL string

	// RedisAddr is host:port of the Redis server. Required for the redis backend.
	RedisAddr string

	// RedisPassword is optional.
	RedisPassword string

	// RedisDB selects the Redis logical database. Defaults to 0.
	RedisDB int

	// SessionScope namespaces the persisted session keys, so several
	// clients can share one store. Defaults to "default".
	SessionScope string

	// HTTPTimeout bounds each request to the HOS API. Defaults to 30s.
	HTTPTimeout time.Duration

	// Timezone decides which calendar day a duty status belongs to.
	// Read from TIMELINE_TZ (IANA name). Defaults to UTC.
	Timezone *time.Location

	// Cache staleness thresholds. Default 5m, 10m and 2m.
	CacheTTLTrips time.Duration
	CacheTTLFleet time.Duration
	CacheTTLDuty  time.Duration

	// MaxBodyBytes limits request bodies accepted by the server. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:    strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionScope:  getEnv("SESSION_SCOPE", "default"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTLTrips, err = getDuration("CACHE_TTL_TRIPS", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTLFleet, err = getDuration("CACHE_TTL_FLEET", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTLDuty, err = getDuration("CACHE_TTL_DUTY", 2*time.Minute); err != nil {
		return Config{}, err
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(maxBody)

	cfg.Timezone, err = time.LoadLocation(getEnv("TIMELINE_TZ", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMELINE_TZ: %w", err)
	}

	var missing []string
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}
	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q: want memory, postgres or redis", cfg.StoreBackend)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// SlogLevel returns LogLevel as a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative integer", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a duration such as 30s or 5m", key, v)
	}
	return d, nil
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
