package ors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		session: &http.Client{Timeout: 2 * time.Second},
		apiKey:  "test-key",
		baseURL: srv.URL,
	}
}

func TestGeocodeParsesBestResult(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/search" {
			t.Errorf("path = %q, want /geocode/search", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("auth header = %q, want api key", got)
		}
		if got := r.URL.Query().Get("text"); got != "Rome Italy" {
			t.Errorf("text = %q, want whitespace-normalized query", got)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"features": []map[string]any{{
				"geometry": map[string]any{"coordinates": []float64{12.4964, 41.9028}},
				"properties": map[string]any{
					"label":    "Rome, Italy",
					"locality": "Rome",
					"country":  "Italy",
				},
			}},
		})
	})

	got, err := NewGeocoder(client).Geocode(context.Background(), "  Rome   Italy ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if got.FormattedAddress != "Rome, Italy" || got.City != "Rome" {
		t.Errorf("result = %+v, want Pelias properties mapped", got)
	}
	if got.Coordinates.Lat != 41.9028 || got.Coordinates.Lng != 12.4964 {
		t.Errorf("coordinates = %+v, want [lng,lat] order converted", got.Coordinates)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"features": []any{}})
	})

	_, err := NewGeocoder(client).Geocode(context.Background(), "Atlantis")
	if !errors.Is(err, domain.ErrNoRouteFound) {
		t.Fatalf("err = %v, want ErrNoRouteFound", err)
	}
}

func TestGetDistanceParsesMatrixCell(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/matrix/driving-car" {
			t.Errorf("path = %q, want driving-car matrix", r.URL.Path)
		}

		var req matrixRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Locations) != 2 || req.Locations[0][0] != 12.4922 {
			t.Errorf("locations = %v, want [lng,lat] pairs", req.Locations)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"distances": [][]any{{1234.4}},
			"durations": [][]any{{299.6}},
		})
	})

	from := domain.Coordinates{Lat: 41.8902, Lng: 12.4922}
	to := domain.Coordinates{Lat: 41.9009, Lng: 12.4833}

	got, err := NewDistanceProvider(client).GetDistance(context.Background(), from, to, ports.ModeDriving)
	if err != nil {
		t.Fatalf("get distance: %v", err)
	}
	if got.DistanceMeters != 1234 || got.DurationSeconds != 300 {
		t.Errorf("result = %+v, want rounded 1234m 300s", got)
	}
}

func TestGetDistanceNullCellMeansNoRoute(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"distances": [][]any{{nil}},
			"durations": [][]any{{nil}},
		})
	})

	from := domain.Coordinates{Lat: 41.8902, Lng: 12.4922}
	to := domain.Coordinates{Lat: 41.9009, Lng: 12.4833}

	_, err := NewDistanceProvider(client).GetDistance(context.Background(), from, to, ports.ModeDriving)
	if !errors.Is(err, domain.ErrNoRouteFound) {
		t.Fatalf("err = %v, want ErrNoRouteFound for null matrix cell", err)
	}
}

func TestGetRouteParsesGeometry(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/directions/foot-walking/geojson" {
			t.Errorf("path = %q, want walking profile", r.URL.Path)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"features": []map[string]any{{
				"geometry": map[string]any{
					"coordinates": [][]float64{{12.4922, 41.8902}, {12.4833, 41.9009}},
				},
				"properties": map[string]any{
					"summary": map[string]any{"distance": 2300.0, "duration": 600.0},
				},
			}},
		})
	})

	waypoints := []domain.Coordinates{
		{Lat: 41.8902, Lng: 12.4922},
		{Lat: 41.9009, Lng: 12.4833},
	}

	got, err := NewRouteProvider(client).GetRoute(context.Background(), waypoints, ports.ModeWalking)
	if err != nil {
		t.Fatalf("get route: %v", err)
	}
	if got.DistanceMeters != 2300 || got.DurationSeconds != 600 {
		t.Errorf("totals = %+v, want 2300m 600s", got)
	}
	if len(got.Polyline) != 2 || got.Polyline[0].Lat != 41.8902 {
		t.Errorf("polyline = %+v, want geometry in lat/lng order", got.Polyline)
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"features": []map[string]any{{
				"geometry":   map[string]any{"coordinates": []float64{12.4964, 41.9028}},
				"properties": map[string]any{"label": "Rome"},
			}},
		})
	})

	if _, err := NewGeocoder(client).Geocode(context.Background(), "Rome"); err != nil {
		t.Fatalf("geocode after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 2 failures then success", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := NewGeocoder(client).Geocode(context.Background(), "Rome")
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want no retry on 403", calls.Load())
	}
}
