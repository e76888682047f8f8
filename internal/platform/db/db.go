// Package db opens the optional Postgres pool used by the shared leg cache.
package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to Postgres via the pgx stdlib driver and verifies the
// connection before handing the pool back.
func Open(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: open postgres: %w", err)
	}

	// The cache is the only consumer; a small pool is plenty.
	pool.SetMaxOpenConns(8)
	pool.SetMaxIdleConns(4)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: verify postgres connection: %w", err)
	}

	return pool, nil
}
