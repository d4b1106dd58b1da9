package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/db"
)

// Initialize the Postgres schema for the location catalog and route cache.
func InitSchema(ctx context.Context, q db.TxQuerier) error {
	if q == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		open_time TEXT,
		close_time TEXT,
		medias TEXT[] NOT NULL DEFAULT '{}'
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		from_point TEXT NOT NULL,
		to_point TEXT NOT NULL,
		distance_km INTEGER NOT NULL,
		duration_min INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (from_point, to_point)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_updated_at
	ON route_cache(updated_at);
	`

	statements := []string{
		createLocationsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Category  string   `json:"category"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	OpenTime  string   `json:"open_time,omitempty"`
	CloseTime string   `json:"close_time,omitempty"`
	Medias    []string `json:"medias,omitempty"`
}

func (s LocationSeed) toDomain() domain.Location {
	return domain.Location{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Category:  s.Category,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		OpenTime:  s.OpenTime,
		CloseTime: s.CloseTime,
		Medias:    s.Medias,
	}
}

// LoadSeeds reads and validates location seeds from a JSON file.
func LoadSeeds(jsonPath string) ([]domain.Location, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load location seeds: read %q: %w", jsonPath, err)
	}

	var data []LocationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load location seeds: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	out := make([]domain.Location, 0, len(data))
	for i, item := range data {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return nil, fmt.Errorf("load location seeds: item at index %d: id cannot be empty", i+1)
		}
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("load location seeds: duplicate id %q at index %d", item.ID, i+1)
		}
		seen[item.ID] = struct{}{}

		loc := item.toDomain()
		if !loc.Coordinates().Valid() {
			return nil, fmt.Errorf("load location seeds: id %q: coordinates out of range", item.ID)
		}
		if loc.Medias == nil {
			loc.Medias = []string{}
		}
		out = append(out, loc)
	}

	return out, nil
}

// Populate the locations table with data from a JSON file.
func SeedFromJSON(ctx context.Context, q db.TxQuerier, jsonPath string) error {
	locations, err := LoadSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
	INSERT INTO locations (id, name, address, category, latitude, longitude, open_time, close_time, medias)
	VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		category = EXCLUDED.category,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		open_time = EXCLUDED.open_time,
		close_time = EXCLUDED.close_time,
		medias = EXCLUDED.medias;
	`

	for _, l := range locations {
		if _, err := tx.Exec(ctx, query, l.ID, l.Name, l.Address, l.Category, l.Latitude, l.Longitude, l.OpenTime, l.CloseTime, l.Medias); err != nil {
			return fmt.Errorf("seed locations: insert id=%s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}

	return nil
}
