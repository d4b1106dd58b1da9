package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"tour-composer-service/internal/adapters/cache"
	"tour-composer-service/internal/adapters/portal"
	"tour-composer-service/internal/adapters/repositories"
	"tour-composer-service/internal/adapters/routing"
	"tour-composer-service/internal/api"
	"tour-composer-service/internal/config"
	"tour-composer-service/internal/platform/db"
	"tour-composer-service/internal/ports"
	"tour-composer-service/internal/session"
	"tour-composer-service/internal/wizard"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (portal, Vietmap, Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer p.Close()
		pool = p
	}

	portalClient, err := portal.NewClient(cfg.PortalBaseURL, cfg.PortalAPIToken, nil)
	if err != nil {
		return err
	}

	source, err := locationSource(cfg, pool, portalClient)
	if err != nil {
		return err
	}
	// Explicit lifetime: built with the server, purged when it stops.
	catalog := portal.NewCachedLocationCatalog(source, cfg.LocationCacheTTL, cfg.LocationCacheSize)
	defer catalog.Close()

	routes, closeRoutes, err := routeProvider(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer closeRoutes()

	sessions := session.NewRegistry(wizard.Deps{
		Routes:    routes,
		Locations: catalog,
		Gateway:   portal.NewTourClient(portalClient),
		Validator: wizard.NewValidator(),
	}, cfg.SessionTTL, cfg.SessionMax)
	defer sessions.Close()

	var limiter *api.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS)*2, 10*time.Minute)
		defer limiter.Close()
	}

	router := api.NewRouter(api.RouterDeps{
		Sessions:    sessions,
		Catalog:     catalog,
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     limiter,
	})

	// Write timeout covers a submission: three sequential portal calls.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s location_source=%s route_cache=%s", cfg.Port, cfg.LocationSource, cfg.RouteCache)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func locationSource(cfg config.Config, pool *pgxpool.Pool, c *portal.Client) (ports.LocationCatalog, error) {
	switch cfg.LocationSource {
	case config.LocationSourcePostgres:
		return repositories.NewPGLocationRepository(pool), nil
	case config.LocationSourceSeed:
		locs, err := repositories.LoadSeeds(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		return repositories.NewMemoryLocationCatalog(locs), nil
	default:
		return portal.NewLocationClient(c), nil
	}
}

// routeProvider builds the cached Vietmap client. Without an API key travel
// metrics are never looked up and visits keep what the client sends.
func routeProvider(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (ports.RouteProvider, func(), error) {
	nop := func() {}

	if cfg.VietmapAPIKey == "" {
		log.Println("VIETMAP_API_KEY not set: travel metrics will not be looked up")
		return nil, nop, nil
	}

	vietmap, err := routing.NewVietmapRouteProvider(cfg.VietmapAPIKey, cfg.VietmapBaseURL, routing.WithRateLimit(cfg.VietmapRPS))
	if err != nil {
		return nil, nop, err
	}

	switch cfg.RouteCache {
	case config.RouteCacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nop, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		rc := cache.NewRedisRouteCache(client, cfg.RouteCacheTTL)
		return routing.NewCachedRouteProvider(vietmap, rc), func() { client.Close() }, nil

	case config.RouteCachePostgres:
		sc := cache.NewSQLRouteCache(pool, cfg.RouteCacheTTL)
		return routing.NewCachedRouteProvider(vietmap, sc), nop, nil

	default:
		mc := cache.NewMemoryRouteCache(cfg.RouteCacheTTL, 10_000)
		return routing.NewCachedRouteProvider(vietmap, mc), mc.Close, nil
	}
}
