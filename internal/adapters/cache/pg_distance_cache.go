package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-planner-service/internal/ports"
)

// PGDistanceCache is a Postgres-backed leg cache for shared
// deployments. Rows live until replaced; lifecycle is left to the
// database (periodic cleanup is an ops concern, not cache logic).
type PGDistanceCache struct {
	DB *sql.DB
}

func NewPGDistanceCache(db *sql.DB) *PGDistanceCache {
	return &PGDistanceCache{DB: db}
}

// InitSchema creates the leg cache table if missing.
func (c *PGDistanceCache) InitSchema(ctx context.Context) error {
	if c.DB == nil {
		return errors.New("pg distance cache: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS leg_cache (
		leg_key TEXT PRIMARY KEY,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL
	);
	`
	if _, err := c.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("pg distance cache: init schema: %w", err)
	}
	return nil
}

// Get returns the cached result for key, or nil on miss.
func (c *PGDistanceCache) Get(ctx context.Context, key string) (*ports.DistanceResult, error) {
	if c.DB == nil {
		return nil, errors.New("pg distance cache: db is nil")
	}
	if key == "" {
		return nil, errors.New("get distance cache: key must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds
	FROM leg_cache
	WHERE leg_key = $1;
	`

	var meters, seconds int
	err := c.DB.QueryRowContext(ctx, q, key).Scan(&meters, &seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query leg_cache table: %w", err)
	}

	return &ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, nil
}

// Put stores the result for key, replacing any previous row.
func (c *PGDistanceCache) Put(ctx context.Context, key string, result ports.DistanceResult) error {
	if c.DB == nil {
		return errors.New("pg distance cache: db is nil")
	}
	if key == "" {
		return errors.New("insert distance cache: key must not be empty")
	}

	q := `
	INSERT INTO leg_cache (leg_key, distance_meters, duration_seconds)
	VALUES ($1, $2, $3)
	ON CONFLICT (leg_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`

	if _, err := c.DB.ExecContext(ctx, q, key, result.DistanceMeters, result.DurationSeconds); err != nil {
		return fmt.Errorf("insert distance cache key=%q: %w", key, err)
	}
	return nil
}
