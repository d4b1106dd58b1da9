package cache

import (
	"context"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/ports"
)

func routeKey(from, to domain.Coordinates) string {
	return from.Point() + ":" + to.Point()
}

// MemoryRouteCache keeps routing results in process memory.
type MemoryRouteCache struct {
	m *Memory[string, ports.RouteResult]
}

func NewMemoryRouteCache(ttl time.Duration, maxSize int) *MemoryRouteCache {
	return &MemoryRouteCache{m: NewMemory[string, ports.RouteResult](ttl, maxSize)}
}

func (c *MemoryRouteCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, bool, error) {
	r, ok := c.m.Get(routeKey(from, to))
	return r, ok, nil
}

func (c *MemoryRouteCache) Put(ctx context.Context, from, to domain.Coordinates, r ports.RouteResult) error {
	c.m.Set(routeKey(from, to), r)
	return nil
}

func (c *MemoryRouteCache) Close() { c.m.Close() }
