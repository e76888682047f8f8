package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// LegRouter resolves each consecutive waypoint pair to a distance and
// duration, consulting the leg cache before the external pairwise
// resolver.
//
// Every resolution pass carries a generation id issued by Dispatch. A
// pass whose generation is no longer current returns ErrStaleResponse
// and its results must be discarded, never applied; this is what keeps
// slow responses from overwriting newer ones.
type LegRouter struct {
	provider ports.DistanceProvider
	cache    ports.LegCache
	gen      atomic.Uint64
}

func NewLegRouter(provider ports.DistanceProvider, cache ports.LegCache) *LegRouter {
	return &LegRouter{provider: provider, cache: cache}
}

// Dispatch issues the next generation id. Callers capture it before
// starting a pass and hand it to Resolve.
func (r *LegRouter) Dispatch() uint64 { return r.gen.Add(1) }

// Current reports whether gen is still the latest issued.
func (r *LegRouter) Current(gen uint64) bool { return r.gen.Load() == gen }

// Resolve returns one leg per adjacent waypoint pair. Cache read
// failures degrade to resolver calls; cache write failures are logged.
// The first failed leg aborts the pass: previously applied state stays
// untouched because nothing is returned.
func (r *LegRouter) Resolve(
	ctx context.Context,
	gen uint64,
	waypoints []domain.Waypoint,
	mode string,
) ([]domain.RouteLeg, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%w: at least 2 waypoints required, got %d", domain.ErrInvalidInput, len(waypoints))
	}

	legs := make([]domain.RouteLeg, 0, len(waypoints)-1)
	for i := 0; i < len(waypoints)-1; i++ {
		from, to := waypoints[i], waypoints[i+1]
		key := ports.LegCacheKey(from.Coordinates, to.Coordinates, mode)

		var result *ports.DistanceResult
		if r.cache != nil {
			hit, err := r.cache.Get(ctx, key)
			if err != nil {
				log.Printf("leg cache read failed: %v", err)
			} else {
				result = hit
			}
		}

		if result == nil {
			fetched, err := r.provider.GetDistance(ctx, from.Coordinates, to.Coordinates, mode)
			if err != nil {
				if !r.Current(gen) {
					return nil, domain.ErrStaleResponse
				}
				if errors.Is(err, domain.ErrNoRouteFound) {
					return nil, fmt.Errorf("resolve leg %q -> %q: %w", from.Name, to.Name, err)
				}
				return nil, fmt.Errorf("resolve leg %q -> %q: %w: %v", from.Name, to.Name, domain.ErrNetworkFailure, err)
			}
			result = &fetched

			if r.cache != nil {
				if err := r.cache.Put(ctx, key, fetched); err != nil {
					log.Printf("leg cache write failed: %v", err)
				}
			}
		}

		// A newer pass has been dispatched; this one is void.
		if !r.Current(gen) {
			return nil, domain.ErrStaleResponse
		}

		legs = append(legs, domain.RouteLeg{
			From:            from,
			To:              to,
			DistanceMeters:  result.DistanceMeters,
			DurationSeconds: result.DurationSeconds,
		})
	}

	return legs, nil
}
