package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type countingGeocoder struct {
	result ports.GeocodeResult
	calls  int
}

func (g *countingGeocoder) Geocode(context.Context, string) (ports.GeocodeResult, error) {
	g.calls++
	return g.result, nil
}

func newGeocodeTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestCachedGeocoderServesRepeatsFromCache(t *testing.T) {
	inner := &countingGeocoder{result: ports.GeocodeResult{
		FormattedAddress: "Rome, Italy",
		Coordinates:      domain.Coordinates{Lat: 41.9028, Lng: 12.4964},
		City:             "Rome",
		Country:          "Italy",
	}}
	geocoder := NewCachedGeocoder(inner, NewSqliteGeocodeCache(newGeocodeTestDB(t)))

	ctx := context.Background()
	first, err := geocoder.Geocode(ctx, "Rome")
	if err != nil {
		t.Fatalf("first geocode: %v", err)
	}

	// Same query, differently spaced: hits the cache.
	second, err := geocoder.Geocode(ctx, "  Rome  ")
	if err != nil {
		t.Fatalf("second geocode: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if second != first {
		t.Errorf("cached result = %+v, want %+v", second, first)
	}
}
