package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trip-planner-service/internal/domain"
)

func seedTestPlaces(t *testing.T, db *sql.DB) {
	t.Helper()

	seed := `[
		{"place_id": "colosseum", "destination": "Rome", "name": "Colosseum",
		 "address": "Piazza del Colosseo", "lat": 41.8902, "lng": 12.4922,
		 "categories": ["landmark", "history"], "rating": 4.7},
		{"place_id": "trevi", "destination": "Rome", "name": "Trevi Fountain",
		 "address": "Piazza di Trevi", "lat": 41.9009, "lng": 12.4833,
		 "categories": ["landmark"], "rating": 4.8},
		{"place_id": "sensoji", "destination": "Tokyo", "name": "Senso-ji Temple",
		 "address": "Asakusa", "rating": 4.5}
	]`

	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestPlaceSearchByDestination(t *testing.T) {
	db := newTestDB(t)
	seedTestPlaces(t, db)
	search := NewSqlitePlaceSearch(db)

	// Destination matching is case-insensitive; results come back
	// best-rated first.
	places, err := search.Search(context.Background(), "ROME", nil, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("results = %d, want 2", len(places))
	}
	if places[0].ID != "trevi" {
		t.Errorf("first result = %q, want highest rated (trevi)", places[0].ID)
	}
	if places[1].Coordinates == nil || places[1].Coordinates.Lat != 41.8902 {
		t.Errorf("coordinates = %+v, want resolved from seed", places[1].Coordinates)
	}
}

func TestPlaceSearchLimit(t *testing.T) {
	db := newTestDB(t)
	seedTestPlaces(t, db)
	search := NewSqlitePlaceSearch(db)

	places, err := search.Search(context.Background(), "rome", nil, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 1 {
		t.Errorf("results = %d, want limit respected", len(places))
	}
}

func TestPlaceDetails(t *testing.T) {
	db := newTestDB(t)
	seedTestPlaces(t, db)
	search := NewSqlitePlaceSearch(db)

	place, err := search.Details(context.Background(), "sensoji")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if place.Name != "Senso-ji Temple" {
		t.Errorf("name = %q, want Senso-ji Temple", place.Name)
	}
	// Seed rows without coordinates stay routable-excluded.
	if place.Coordinates != nil {
		t.Errorf("coordinates = %+v, want nil for unlocated seed", place.Coordinates)
	}

	if _, err := search.Details(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing place err = %v, want ErrNotFound", err)
	}
}
