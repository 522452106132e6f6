// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Row store drivers.
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// RowStoreConfig provides settings for the remote row store client.
type RowStoreConfig interface {
	DatabaseConfig
	GetRowStoreDriver() string
	GetRowStoreURL() string
	GetRowStoreAnonKey() string
	GetRowStoreTimeout() time.Duration
	GetSQLitePath() string
	GetMigrationsEnabled() bool
	IsRowStoreConfigured() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// RateLimitConfig provides settings for the public API rate limiters.
// Scroll reports have their own bucket.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
	GetScrollRateLimitRPS() float64
	GetScrollRateLimitBurst() int
}

// SessionConfig provides settings for page session lifetime.
type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetSessionSweepInterval() time.Duration
	GetTrackTimeout() time.Duration
}

// LeadConfig provides settings for the lead form.
type LeadConfig interface {
	GetPhoneRegion() string
}

// Config holds every setting read from the environment.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	RateLimitRPS         float64
	RateLimitBurst       int
	ScrollRateLimitRPS   float64
	ScrollRateLimitBurst int
	RowStoreDriver       string
	RowStoreURL          string
	RowStoreAnonKey      string
	RowStoreTimeout      time.Duration
	DatabaseURL          string
	SQLitePath           string
	MigrationsEnabled    bool
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	TrackTimeout         time.Duration
	PhoneRegion          string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// RowStoreConfig implementation
func (c *Config) GetRowStoreDriver() string         { return c.RowStoreDriver }
func (c *Config) GetRowStoreURL() string            { return c.RowStoreURL }
func (c *Config) GetRowStoreAnonKey() string        { return c.RowStoreAnonKey }
func (c *Config) GetRowStoreTimeout() time.Duration { return c.RowStoreTimeout }
func (c *Config) GetSQLitePath() string             { return c.SQLitePath }
func (c *Config) GetMigrationsEnabled() bool        { return c.MigrationsEnabled }

// IsRowStoreConfigured reports whether the selected driver has everything it needs.
func (c *Config) IsRowStoreConfigured() bool {
	switch c.RowStoreDriver {
	case DriverPostgres:
		return c.DatabaseURL != ""
	case DriverSQLite:
		return c.SQLitePath != ""
	default:
		return c.RowStoreURL != "" && c.RowStoreAnonKey != ""
	}
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64       { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int         { return c.RateLimitBurst }
func (c *Config) GetScrollRateLimitRPS() float64 { return c.ScrollRateLimitRPS }
func (c *Config) GetScrollRateLimitBurst() int   { return c.ScrollRateLimitBurst }

// SessionConfig implementation
func (c *Config) GetSessionTTL() time.Duration           { return c.SessionTTL }
func (c *Config) GetSessionSweepInterval() time.Duration { return c.SessionSweepInterval }
func (c *Config) GetTrackTimeout() time.Duration         { return c.TrackTimeout }

// LeadConfig implementation
func (c *Config) GetPhoneRegion() string { return c.PhoneRegion }

// IsProduction reports whether the service runs with production policy.
func (c *Config) IsProduction() bool { return strings.EqualFold(c.Env, "production") }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	var p parser
	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		RateLimitRPS:         mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:       mustInt(getEnv("RATE_LIMIT_BURST", "30")),
		ScrollRateLimitRPS:   mustFloat(getEnv("SCROLL_RATE_LIMIT_RPS", "60")),
		ScrollRateLimitBurst: mustInt(getEnv("SCROLL_RATE_LIMIT_BURST", "120")),
		RowStoreDriver:       strings.ToLower(strings.TrimSpace(getEnv("ROWSTORE_DRIVER", DriverREST))),
		RowStoreURL:          strings.TrimRight(firstEnv("ROWSTORE_URL", "SUPABASE_URL", "VITE_SUPABASE_URL"), "/"),
		RowStoreAnonKey:      firstEnv("ROWSTORE_ANON_KEY", "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"),
		RowStoreTimeout:      p.duration("ROWSTORE_TIMEOUT", "10s"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SQLitePath:           getEnv("SQLITE_PATH", ""),
		MigrationsEnabled:    strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		SessionTTL:           p.duration("SESSION_TTL", "30m"),
		SessionSweepInterval: p.duration("SESSION_SWEEP_INTERVAL", "1m"),
		TrackTimeout:         p.duration("TRACK_TIMEOUT", "5s"),
		PhoneRegion:          strings.ToUpper(strings.TrimSpace(getEnv("PHONE_REGION", ""))),
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.RowStoreDriver {
	case DriverREST, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("ROWSTORE_DRIVER must be one of %q, %q, %q", DriverREST, DriverPostgres, DriverSQLite)
	}
	if c.IsProduction() && !c.IsRowStoreConfigured() {
		switch c.RowStoreDriver {
		case DriverPostgres:
			return fmt.Errorf("DATABASE_URL is required in production")
		case DriverSQLite:
			return fmt.Errorf("SQLITE_PATH is required in production")
		default:
			return fmt.Errorf("ROWSTORE_URL and ROWSTORE_ANON_KEY are required in production")
		}
	}
	if c.RowStoreTimeout < 0 || c.TrackTimeout < 0 {
		return fmt.Errorf("ROWSTORE_TIMEOUT and TRACK_TIMEOUT must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be a positive duration")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be a positive duration")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

// parser keeps the first malformed value seen while loading.
type parser struct {
	err error
}

func (p *parser) duration(key, fallback string) time.Duration {
	value := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("%s must be a duration such as %q, got %q", key, fallback, value)
		}
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
