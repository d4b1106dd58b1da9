package ports

import (
	"context"
	"tour-composer-service/internal/domain"
)

// Driving distance and travel duration between two points, rounded to
// whole kilometers and minutes.
type RouteResult struct {
	DistanceKm  int
	DurationMin int
}

// Contract for the external routing lookup.
type RouteProvider interface {
	// Return the travel metrics between two coordinates. Any error means
	// "no data"; callers fall back to their own defaults.
	Route(ctx context.Context, from, to domain.Coordinates) (RouteResult, error)
}
