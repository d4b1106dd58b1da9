package ports

import (
	"context"
	"errors"
	"tour-composer-service/internal/domain"
)

var ErrLocationNotFound = errors.New("location not found")

// Port: read-only access to the locations a tour can visit.
type LocationCatalog interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	// Return ErrLocationNotFound (possibly wrapped) for unknown ids.
	GetLocation(ctx context.Context, id string) (domain.Location, error)
}
