package repositories

import (
	"context"
	"errors"
	"fmt"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/db"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"

	"github.com/jackc/pgx/v5"
)

const selectLocationColumns = `
	SELECT
		id,
		name,
		address,
		category,
		latitude,
		longitude,
		COALESCE(open_time, ''),
		COALESCE(close_time, ''),
		medias
	FROM locations
`

// Postgres-backed implementation of the LocationCatalog port.
type PGLocationRepository struct{ DB db.Querier }

func NewPGLocationRepository(q db.Querier) *PGLocationRepository {
	return &PGLocationRepository{DB: q}
}

// Return all locations ordered by name.
func (s *PGLocationRepository) ListLocations(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "locations.pg.List")(&err)

	if s.DB == nil {
		return nil, errors.New("pg location repository: DB is nil")
	}

	rows, err := s.DB.Query(ctx, selectLocationColumns+` ORDER BY name, id;`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0, 64)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

func (s *PGLocationRepository) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	if s.DB == nil {
		return domain.Location{}, errors.New("pg location repository: DB is nil")
	}

	row := s.DB.QueryRow(ctx, selectLocationColumns+` WHERE id = $1;`, id)
	l, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Location{}, fmt.Errorf("get location %q: %w", id, ports.ErrLocationNotFound)
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %q: %w", id, err)
	}

	return l, nil
}

func scanLocation(row pgx.Row) (domain.Location, error) {
	var l domain.Location
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Category, &l.Latitude, &l.Longitude, &l.OpenTime, &l.CloseTime, &l.Medias)
	return l, err
}
