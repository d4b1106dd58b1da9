package repositories

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/ports"
)

// MemoryLocationCatalog serves a fixed set of locations, typically loaded
// from the seed file for local runs and tests.
type MemoryLocationCatalog struct {
	byID  map[string]domain.Location
	order []string
}

func NewMemoryLocationCatalog(locations []domain.Location) *MemoryLocationCatalog {
	c := &MemoryLocationCatalog{byID: make(map[string]domain.Location, len(locations))}
	for _, l := range locations {
		if _, ok := c.byID[l.ID]; !ok {
			c.order = append(c.order, l.ID)
		}
		c.byID[l.ID] = l
	}
	slices.SortStableFunc(c.order, func(a, b string) int {
		return strings.Compare(c.byID[a].Name, c.byID[b].Name)
	})
	return c
}

func (c *MemoryLocationCatalog) ListLocations(ctx context.Context) ([]domain.Location, error) {
	out := make([]domain.Location, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out, nil
}

func (c *MemoryLocationCatalog) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	l, ok := c.byID[id]
	if !ok {
		return domain.Location{}, fmt.Errorf("get location %q: %w", id, ports.ErrLocationNotFound)
	}
	return l, nil
}
