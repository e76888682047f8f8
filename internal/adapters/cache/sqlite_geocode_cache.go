package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trip-planner-service/internal/ports"
)

// SQLite backed cache mapping geocode queries to resolved locations.
// Query keys are expected to be consistent (e.g., normalized) by the
// caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch the cached result for one query. Returns nil on miss.
func (s *SqliteGeocodeCache) Get(ctx context.Context, query string) (*ports.GeocodeResult, error) {
	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("get geocode cache: query must not be empty")
	}

	q := `
	SELECT formatted_address, lat, lng, city, state, country
	FROM geocode_cache
	WHERE query = ?;
	`

	var out ports.GeocodeResult
	err := s.DB.QueryRowContext(ctx, q, query).Scan(
		&out.FormattedAddress,
		&out.Coordinates.Lat,
		&out.Coordinates.Lng,
		&out.City,
		&out.State,
		&out.Country,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return &out, nil
}

// Store the resolved location for a query.
func (s *SqliteGeocodeCache) Put(ctx context.Context, query string, result ports.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: query must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (
		query,
		formatted_address,
		lat,
		lng,
		city,
		state,
		country
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		query,
		result.FormattedAddress,
		result.Coordinates.Lat,
		result.Coordinates.Lng,
		result.City,
		result.State,
		result.Country,
	); err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}
	return nil
}
