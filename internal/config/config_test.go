package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "http://portal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.RouteCache != RouteCacheMemory || cfg.LocationSource != LocationSourcePortal {
		t.Fatalf("unexpected sources: %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORTAL_BASE_URL", "http://portal")
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ROUTE_CACHE", RouteCachePostgres)
	t.Setenv("ROUTE_CACHE_TTL", "30m")
	t.Setenv("SESSION_MAX", "5")
	t.Setenv("VIETMAP_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RouteCache != RouteCachePostgres || cfg.RouteCacheTTL != 30*time.Minute {
		t.Fatalf("route cache = %s %v", cfg.RouteCache, cfg.RouteCacheTTL)
	}
	if cfg.SessionMax != 5 || cfg.VietmapRPS != 2.5 {
		t.Fatalf("numbers not parsed: %+v", cfg)
	}
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	tests := []map[string]string{
		{"PORTAL_BASE_URL": ""},
		{"PORTAL_BASE_URL": "http://portal", "ROUTE_CACHE": "disk"},
		{"PORTAL_BASE_URL": "http://portal", "ROUTE_CACHE": RouteCachePostgres},
		{"PORTAL_BASE_URL": "http://portal", "LOCATION_SOURCE": "file"},
		{"PORTAL_BASE_URL": "http://portal", "LOCATION_SOURCE": LocationSourcePostgres},
	}

	for _, env := range tests {
		t.Run("", func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("SEED_PATH", "x.json")
	if got := Get("SEED_PATH", "y.json"); got != "x.json" {
		t.Fatalf("got %q", got)
	}
	if got := Get("SOME_UNSET_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}
