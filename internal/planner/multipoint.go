package planner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MultiPointRouter sends the entire ordered waypoint list to the
// external multi-stop routing service in one call. A successful result
// is canonical: it reflects real road topology rather than summed
// pairwise segments.
//
// The latest successful route is retained across subsequent failures so
// the displayed route does not flicker to empty on a transient error.
// Stale results (an older generation completing after a newer dispatch)
// are discarded.
type MultiPointRouter struct {
	provider ports.RouteProvider
	gen      atomic.Uint64

	mu       sync.Mutex
	lastGood *ports.MultiPointRoute
}

func NewMultiPointRouter(provider ports.RouteProvider) *MultiPointRouter {
	return &MultiPointRouter{provider: provider}
}

// Dispatch issues the next generation id.
func (r *MultiPointRouter) Dispatch() uint64 { return r.gen.Add(1) }

// Current reports whether gen is still the latest issued.
func (r *MultiPointRouter) Current(gen uint64) bool { return r.gen.Load() == gen }

// Resolve routes the full waypoint list. On success the result becomes
// the retained last-good route. On failure the previous last-good route
// is kept and the error is surfaced for an advisory.
func (r *MultiPointRouter) Resolve(
	ctx context.Context,
	gen uint64,
	waypoints []domain.Waypoint,
	mode string,
) (*ports.MultiPointRoute, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%w: at least 2 waypoints required, got %d", domain.ErrInvalidInput, len(waypoints))
	}

	coords := make([]domain.Coordinates, 0, len(waypoints))
	for _, wp := range waypoints {
		coords = append(coords, wp.Coordinates)
	}

	route, err := r.provider.GetRoute(ctx, coords, mode)
	if !r.Current(gen) {
		return nil, domain.ErrStaleResponse
	}
	if err != nil {
		return nil, fmt.Errorf("multi-stop route: %w", err)
	}

	r.mu.Lock()
	r.lastGood = &route
	r.mu.Unlock()

	return &route, nil
}

// LastGood returns the retained route from the most recent success, or
// nil if none exists (or it has been reset).
func (r *MultiPointRouter) LastGood() *ports.MultiPointRoute {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastGood
}

// Reset clears the retained route. Called only when the waypoint count
// drops below two, the single case that clears rather than retains.
func (r *MultiPointRouter) Reset() {
	r.mu.Lock()
	r.lastGood = nil
	r.mu.Unlock()
}
