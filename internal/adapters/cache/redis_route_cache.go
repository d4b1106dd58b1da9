package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const redisRouteKeyPrefix = "route:"

type redisRouteValue struct {
	DistanceKm  int `json:"distance_km"`
	DurationMin int `json:"duration_min"`
}

// RedisRouteCache shares routing results between service instances.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, from, to domain.Coordinates) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if c.Client == nil {
		return ports.RouteResult{}, false, errors.New("route cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, redisRouteKeyPrefix+routeKey(from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var v redisRouteValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode value: %w", err)
	}

	return ports.RouteResult{DistanceKm: v.DistanceKm, DurationMin: v.DurationMin}, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, from, to domain.Coordinates, r ports.RouteResult) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	payload, err := json.Marshal(redisRouteValue{DistanceKm: r.DistanceKm, DurationMin: r.DurationMin})
	if err != nil {
		return fmt.Errorf("put route cache: encode value: %w", err)
	}

	if err := c.Client.Set(ctx, redisRouteKeyPrefix+routeKey(from, to), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put route cache: redis set: %w", err)
	}

	return nil
}
