package ors

import (
	"context"
	"fmt"
	"sync"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockPair scripts one directed leg result.
type MockPair struct {
	From, To domain.Coordinates
	Mode     string
	Meters   int
	Seconds  int
}

// MockDistanceProvider serves scripted pairwise results and counts
// resolver calls, for cache and router tests.
type MockDistanceProvider struct {
	mu    sync.Mutex
	m     map[string]ports.DistanceResult
	Calls int
	Err   error
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[ports.LegCacheKey(p.From, p.To, p.Mode)] = ports.DistanceResult{
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
		}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, from, to domain.Coordinates, mode string) (ports.DistanceResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Err != nil {
		return ports.DistanceResult{}, p.Err
	}
	r, ok := p.m[ports.LegCacheKey(from, to, mode)]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("%w: missing pair %.5f,%.5f -> %.5f,%.5f", domain.ErrNoRouteFound, from.Lat, from.Lng, to.Lat, to.Lng)
	}
	return r, nil
}

// MockRouteProvider serves one scripted multi-stop result.
type MockRouteProvider struct {
	mu    sync.Mutex
	Route ports.MultiPointRoute
	Err   error
	Calls int
}

func (p *MockRouteProvider) Set(route ports.MultiPointRoute, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Route = route
	p.Err = err
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, waypoints []domain.Coordinates, mode string) (ports.MultiPointRoute, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Err != nil {
		return ports.MultiPointRoute{}, p.Err
	}
	return p.Route, nil
}

// MockGeocoder serves scripted geocode results keyed by query.
type MockGeocoder struct {
	Results map[string]ports.GeocodeResult
}

func (g *MockGeocoder) Geocode(ctx context.Context, query string) (ports.GeocodeResult, error) {
	if r, ok := g.Results[query]; ok {
		return r, nil
	}
	return ports.GeocodeResult{}, fmt.Errorf("%w: no geocode results for %q", domain.ErrNoRouteFound, query)
}
