package planner

import (
	"context"
	"errors"
	"testing"

	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/ors"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

var (
	ptA = domain.Coordinates{Lat: 41.8902, Lng: 12.4922}
	ptB = domain.Coordinates{Lat: 41.9009, Lng: 12.4833}
	ptC = domain.Coordinates{Lat: 41.9028, Lng: 12.4964}
)

func testWaypoints() []domain.Waypoint {
	return []domain.Waypoint{
		{ID: "a", Name: "Colosseum", Coordinates: ptA},
		{ID: "b", Name: "Trevi Fountain", Coordinates: ptB},
		{ID: "c", Name: "Rome", Coordinates: ptC},
	}
}

func testPairs() []ors.MockPair {
	return []ors.MockPair{
		{From: ptA, To: ptB, Mode: ports.ModeDriving, Meters: 1200, Seconds: 300},
		{From: ptB, To: ptC, Mode: ports.ModeDriving, Meters: 900, Seconds: 240},
	}
}

func TestLegRouterResolvesAdjacentPairs(t *testing.T) {
	provider := ors.NewMockDistanceProvider(testPairs())
	router := NewLegRouter(provider, nil)

	gen := router.Dispatch()
	legs, err := router.Resolve(context.Background(), gen, testWaypoints(), ports.ModeDriving)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(legs))
	}
	if legs[0].DistanceMeters != 1200 || legs[1].DistanceMeters != 900 {
		t.Errorf("distances = %d, %d, want 1200, 900", legs[0].DistanceMeters, legs[1].DistanceMeters)
	}
	if legs[0].From.Name != "Colosseum" || legs[0].To.Name != "Trevi Fountain" {
		t.Errorf("leg 0 endpoints = %q -> %q", legs[0].From.Name, legs[0].To.Name)
	}
}

func TestLegRouterCacheAvoidsResolverCalls(t *testing.T) {
	provider := ors.NewMockDistanceProvider(testPairs())
	router := NewLegRouter(provider, cache.NewMemoryDistanceCache(16))

	ctx := context.Background()
	if _, err := router.Resolve(ctx, router.Dispatch(), testWaypoints(), ports.ModeDriving); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if provider.Calls != 2 {
		t.Fatalf("cold pass calls = %d, want 2", provider.Calls)
	}

	if _, err := router.Resolve(ctx, router.Dispatch(), testWaypoints(), ports.ModeDriving); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if provider.Calls != 2 {
		t.Errorf("warm pass calls = %d, want 2 (cache must serve repeats)", provider.Calls)
	}
}

func TestLegRouterStaleGenerationDiscarded(t *testing.T) {
	provider := ors.NewMockDistanceProvider(testPairs())
	router := NewLegRouter(provider, nil)

	stale := router.Dispatch()
	router.Dispatch() // newer pass supersedes

	_, err := router.Resolve(context.Background(), stale, testWaypoints(), ports.ModeDriving)
	if !errors.Is(err, domain.ErrStaleResponse) {
		t.Fatalf("err = %v, want ErrStaleResponse", err)
	}
}

func TestLegRouterFirstFailureAborts(t *testing.T) {
	// Only the first pair is scripted; the second leg cannot resolve.
	provider := ors.NewMockDistanceProvider(testPairs()[:1])
	router := NewLegRouter(provider, nil)

	legs, err := router.Resolve(context.Background(), router.Dispatch(), testWaypoints(), ports.ModeDriving)
	if !errors.Is(err, domain.ErrNoRouteFound) {
		t.Fatalf("err = %v, want ErrNoRouteFound", err)
	}
	if legs != nil {
		t.Errorf("legs = %v, want nil on aborted pass", legs)
	}
}

func TestLegRouterRejectsTooFewWaypoints(t *testing.T) {
	router := NewLegRouter(ors.NewMockDistanceProvider(nil), nil)

	_, err := router.Resolve(context.Background(), router.Dispatch(), testWaypoints()[:1], ports.ModeDriving)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
