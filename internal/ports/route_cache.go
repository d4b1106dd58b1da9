package ports

import (
	"context"
	"tour-composer-service/internal/domain"
)

// Cache of RouteProvider results keyed by the coordinate pair.
type RouteCache interface {
	// Return the cached result and whether it was present.
	Get(ctx context.Context, from, to domain.Coordinates) (RouteResult, bool, error)
	Put(ctx context.Context, from, to domain.Coordinates, r RouteResult) error
}
