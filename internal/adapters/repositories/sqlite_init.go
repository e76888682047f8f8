package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema: persisted plans, the geocode
// cache, and the suggested-places catalog used to seed new itineraries.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		plan_id TEXT PRIMARY KEY,
		destination TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT PRIMARY KEY,
		formatted_address TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT ''
	);
	`

	createSuggestedPlacesQuery := `
	CREATE TABLE IF NOT EXISTS suggested_places (
		place_id TEXT PRIMARY KEY,
		destination TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		lat REAL,
		lng REAL,
		categories TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT ''
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_suggested_places_destination
	ON suggested_places(destination);
	`

	statements := []string{
		createPlansQuery,
		createGeocodeCacheQuery,
		createSuggestedPlacesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	PlaceID     string   `json:"place_id"`
	Destination string   `json:"destination"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Categories  []string `json:"categories"`
	Rating      float64  `json:"rating"`
	ImageURL    string   `json:"image_url"`
}

// Populate the suggested-places catalog from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed places: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.PlaceID) == "" {
			return fmt.Errorf("seed places: item at index %d: place_id cannot be empty", i+1)
		}
		if strings.TrimSpace(item.Destination) == "" {
			return fmt.Errorf("seed places: item at index %d: destination cannot be empty", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed places: item at index %d: name cannot be empty", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO suggested_places (
		place_id,
		destination,
		name,
		address,
		lat,
		lng,
		categories,
		rating,
		image_url
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed places: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range data {
		categories := strings.Join(p.Categories, ",")
		if _, err := stmt.Exec(
			p.PlaceID,
			strings.ToLower(strings.TrimSpace(p.Destination)),
			p.Name,
			p.Address,
			p.Lat,
			p.Lng,
			categories,
			p.Rating,
			p.ImageURL,
		); err != nil {
			return fmt.Errorf("seed places: insert place_id=%q: %w", p.PlaceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}
