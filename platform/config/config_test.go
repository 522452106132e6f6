package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "HTTP_ADDR", "ROWSTORE_DRIVER",
	"ROWSTORE_URL", "SUPABASE_URL", "VITE_SUPABASE_URL",
	"ROWSTORE_ANON_KEY", "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY",
	"ROWSTORE_TIMEOUT", "DATABASE_URL", "SQLITE_PATH", "MIGRATIONS_ENABLED",
	"SESSION_TTL", "SESSION_SWEEP_INTERVAL", "TRACK_TIMEOUT", "PHONE_REGION",
	"CORS_ORIGINS", "CORS_ALLOW_ALL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"SCROLL_RATE_LIMIT_RPS", "SCROLL_RATE_LIMIT_BURST",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Env != "development" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults env=%q addr=%q", cfg.Env, cfg.HTTPAddr)
	}
	if cfg.RowStoreDriver != DriverREST {
		t.Fatalf("expected rest driver, got %q", cfg.RowStoreDriver)
	}
	if cfg.IsRowStoreConfigured() {
		t.Fatal("expected row store unconfigured without URL and key")
	}
	if cfg.RowStoreTimeout != 10*time.Second || cfg.TrackTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts %v %v", cfg.RowStoreTimeout, cfg.TrackTimeout)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.SessionSweepInterval != time.Minute {
		t.Fatalf("unexpected session durations %v %v", cfg.SessionTTL, cfg.SessionSweepInterval)
	}
	if cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 30 {
		t.Fatalf("unexpected api rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ScrollRateLimitRPS != 60 || cfg.ScrollRateLimitBurst != 120 {
		t.Fatalf("unexpected scroll rate limit %v/%d", cfg.ScrollRateLimitRPS, cfg.ScrollRateLimitBurst)
	}
	if cfg.PhoneRegion != "" {
		t.Fatalf("expected phone normalisation off by default, got %q", cfg.PhoneRegion)
	}
}

func TestLoadFallsBackToSupabaseNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.RowStoreURL != "https://example.supabase.co" {
		t.Fatalf("expected trimmed URL, got %q", cfg.RowStoreURL)
	}
	if cfg.RowStoreAnonKey != "anon" || !cfg.IsRowStoreConfigured() {
		t.Fatalf("expected configured row store, got key=%q", cfg.RowStoreAnonKey)
	}
}

func TestLoadProductionRequiresRowStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ROWSTORE_URL") {
		t.Fatalf("expected missing row store error, got %v", err)
	}

	t.Setenv("ROWSTORE_DRIVER", DriverSQLite)
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SQLITE_PATH") {
		t.Fatalf("expected missing sqlite path error, got %v", err)
	}

	t.Setenv("SQLITE_PATH", "/tmp/rows.db")
	if _, err := Load(); err != nil {
		t.Fatalf("expected configured sqlite to load, got %v", err)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROWSTORE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadRejectsBadSessionTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "soon")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_TTL") {
		t.Fatalf("expected SESSION_TTL error, got %v", err)
	}
}

func TestLoadRejectsBadTimeouts(t *testing.T) {
	cases := map[string]string{
		"ROWSTORE_TIMEOUT": "ten seconds",
		"TRACK_TIMEOUT":    "5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			if _, err := Load(); err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s error, got %v", key, err)
			}
		})
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACK_TIMEOUT", "-1s")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "TRACK_TIMEOUT") {
		t.Fatalf("expected TRACK_TIMEOUT error, got %v", err)
	}
}

func TestCORSWildcardAllowsAll(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, *")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.CORSAllowAll {
		t.Fatal("expected wildcard to allow all origins")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}
