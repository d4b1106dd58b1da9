package ports

import (
	"context"
	"tour-composer-service/internal/domain"
)

// Port: the remote tour create/update endpoints, one call per wizard step.
type TourGateway interface {
	CreateBasicInfo(ctx context.Context, info domain.TourBasicInfo) (tourID string, err error)
	CreateSchedules(ctx context.Context, tourID string, schedules []domain.TourSchedule) error
	CreateLocations(ctx context.Context, tourID string, visits []domain.Visit) error
}
