package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/db"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"

	"github.com/jackc/pgx/v5"
)

// SQLRouteCache is a Postgres-backed cache for from->to routing results.
// Entries older than MaxAge are treated as misses and overwritten on Put.
type SQLRouteCache struct {
	DB     db.Querier
	MaxAge time.Duration
}

func NewSQLRouteCache(q db.Querier, maxAge time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: q, MaxAge: maxAge}
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT distance_km, duration_min
	FROM route_cache
	WHERE from_point = $1
		AND to_point = $2
		AND ($3::bigint <= 0 OR updated_at > now() - make_interval(secs => $3::bigint));
	`

	var r ports.RouteResult
	err = s.DB.QueryRow(ctx, q, from.Point(), to.Point(), int64(s.MaxAge.Seconds())).Scan(&r.DistanceKm, &r.DurationMin)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return r, true, nil
}

func (s *SQLRouteCache) Put(ctx context.Context, from, to domain.Coordinates, r ports.RouteResult) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	_, err := s.DB.Exec(ctx, `
	INSERT INTO route_cache (from_point, to_point, distance_km, duration_min, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (from_point, to_point) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_min = EXCLUDED.duration_min,
		updated_at = EXCLUDED.updated_at;
	`, from.Point(), to.Point(), r.DistanceKm, r.DurationMin)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", from.Point(), to.Point(), err)
	}

	return nil
}
