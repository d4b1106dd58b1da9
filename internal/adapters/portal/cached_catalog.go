package portal

import (
	"context"
	"time"
	"tour-composer-service/internal/adapters/cache"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/ports"
)

const allLocationsKey = "\x00all"

// CachedLocationCatalog fronts a LocationCatalog with a bounded TTL cache.
// The cache lives as long as the catalog; call Close on shutdown.
type CachedLocationCatalog struct {
	next  ports.LocationCatalog
	list  *cache.Memory[string, []domain.Location]
	items *cache.Memory[string, domain.Location]
}

func NewCachedLocationCatalog(next ports.LocationCatalog, ttl time.Duration, maxSize int) *CachedLocationCatalog {
	return &CachedLocationCatalog{
		next:  next,
		list:  cache.NewMemory[string, []domain.Location](ttl, 1),
		items: cache.NewMemory[string, domain.Location](ttl, maxSize),
	}
}

func (c *CachedLocationCatalog) ListLocations(ctx context.Context) ([]domain.Location, error) {
	if ls, ok := c.list.Get(allLocationsKey); ok {
		return cloneLocations(ls), nil
	}

	ls, err := c.next.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	c.list.Set(allLocationsKey, cloneLocations(ls))
	for _, l := range ls {
		c.items.Set(l.ID, l)
	}
	return ls, nil
}

func (c *CachedLocationCatalog) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	if l, ok := c.items.Get(id); ok {
		return l, nil
	}

	l, err := c.next.GetLocation(ctx, id)
	if err != nil {
		return domain.Location{}, err
	}

	c.items.Set(id, l)
	return l, nil
}

// Purge drops every cached entry.
func (c *CachedLocationCatalog) Purge() {
	c.list.Purge()
	c.items.Purge()
}

func (c *CachedLocationCatalog) Close() {
	c.list.Close()
	c.items.Close()
}

func cloneLocations(ls []domain.Location) []domain.Location {
	out := make([]domain.Location, len(ls))
	copy(out, ls)
	return out
}
