// Package config loads service settings from the environment (and an
// optional .env file).
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	LocationSourcePortal   = "portal"
	LocationSourcePostgres = "postgres"
	LocationSourceSeed     = "seed"

	RouteCacheMemory   = "memory"
	RouteCacheRedis    = "redis"
	RouteCachePostgres = "postgres"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	VietmapAPIKey  string  `mapstructure:"VIETMAP_API_KEY"`
	VietmapBaseURL string  `mapstructure:"VIETMAP_BASE_URL"`
	VietmapRPS     float64 `mapstructure:"VIETMAP_RPS"`

	PortalBaseURL  string `mapstructure:"PORTAL_BASE_URL"`
	PortalAPIToken string `mapstructure:"PORTAL_API_TOKEN"`

	LocationSource    string        `mapstructure:"LOCATION_SOURCE"`
	LocationCacheTTL  time.Duration `mapstructure:"LOCATION_CACHE_TTL"`
	LocationCacheSize int           `mapstructure:"LOCATION_CACHE_SIZE"`

	RouteCache    string        `mapstructure:"ROUTE_CACHE"`
	RouteCacheTTL time.Duration `mapstructure:"ROUTE_CACHE_TTL"`

	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`
	SessionMax int           `mapstructure:"SESSION_MAX"`

	SeedPath     string   `mapstructure:"SEED_PATH"`
	CORSOrigins  []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS float64  `mapstructure:"RATE_LIMIT_RPS"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"DATABASE_URL":        "",
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"VIETMAP_API_KEY":     "",
	"VIETMAP_BASE_URL":    "https://maps.vietmap.vn",
	"VIETMAP_RPS":         5.0,
	"PORTAL_BASE_URL":     "",
	"PORTAL_API_TOKEN":    "",
	"LOCATION_SOURCE":     LocationSourcePortal,
	"LOCATION_CACHE_TTL":  5 * time.Minute,
	"LOCATION_CACHE_SIZE": 500,
	"ROUTE_CACHE":         RouteCacheMemory,
	"ROUTE_CACHE_TTL":     24 * time.Hour,
	"SESSION_TTL":         2 * time.Hour,
	"SESSION_MAX":         1000,
	"SEED_PATH":           "data/seeds/locations.json",
	"CORS_ORIGINS":        []string{"*"},
	"RATE_LIMIT_RPS":      10.0,
}

// Load reads .env when present, then the process environment, on top of
// the defaults above.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LocationSource {
	case LocationSourcePortal:
		if c.PortalBaseURL == "" {
			return fmt.Errorf("PORTAL_BASE_URL is required when LOCATION_SOURCE=%s", c.LocationSource)
		}
	case LocationSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when LOCATION_SOURCE=%s", c.LocationSource)
		}
	case LocationSourceSeed:
		if c.SeedPath == "" {
			return fmt.Errorf("SEED_PATH is required when LOCATION_SOURCE=%s", c.LocationSource)
		}
	default:
		return fmt.Errorf("LOCATION_SOURCE %q is not one of portal, postgres, seed", c.LocationSource)
	}

	switch c.RouteCache {
	case RouteCacheMemory, RouteCacheRedis:
	case RouteCachePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ROUTE_CACHE=%s", c.RouteCache)
		}
	default:
		return fmt.Errorf("ROUTE_CACHE %q is not one of memory, redis, postgres", c.RouteCache)
	}

	if c.PortalBaseURL == "" {
		return fmt.Errorf("PORTAL_BASE_URL is required")
	}
	if c.SessionMax < 1 {
		return fmt.Errorf("SESSION_MAX must be at least 1")
	}
	return nil
}

// Get returns the environment value of key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
