package planner

import (
	"sync"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// ObservedMetrics are externally supplied route totals, e.g. reported
// by a rendered-route callback from the map layer.
type ObservedMetrics struct {
	DistanceMeters  int
	DurationSeconds int
}

// RouteAggregator merges leg sums, multi-stop totals, and observed
// metrics into one authoritative RouteSummary.
//
// Resolution order: multi-stop result, else a complete leg-by-leg sum,
// else map-observed metrics, else the retained totals from the last
// successful computation. Fewer than 2 waypoints is the single case
// that clears rather than retains.
type RouteAggregator struct {
	mu       sync.Mutex
	last     *domain.RouteSummary
	observed *ObservedMetrics
}

func NewRouteAggregator() *RouteAggregator { return &RouteAggregator{} }

// SetObserved records (or clears, with nil) map-observed route metrics.
func (a *RouteAggregator) SetObserved(m *ObservedMetrics) {
	a.mu.Lock()
	a.observed = m
	a.mu.Unlock()
}

// Summary returns the current authoritative summary, nil when unset.
// Callers get their own copy; the live summary is never shared outside
// the lock.
func (a *RouteAggregator) Summary() *domain.RouteSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return nil
	}
	copied := *a.last
	return &copied
}

// Update recomputes the authoritative summary from the latest inputs.
// multi is the multi-stop router's current successful result (nil when
// it failed or has not run); legs is the leg router's output (nil when
// incomplete). Either may be absent independently.
func (a *RouteAggregator) Update(
	waypointCount int,
	multi *ports.MultiPointRoute,
	legs []domain.RouteLeg,
) *domain.RouteSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	if waypointCount < 2 {
		a.last = nil
		return nil
	}

	legsComplete := len(legs) == waypointCount-1

	if multi != nil {
		summary := &domain.RouteSummary{
			TotalDistanceMeters:  multi.DistanceMeters,
			TotalDurationSeconds: multi.DurationSeconds,
			Polyline:             multi.Polyline,
			Source:               "multipoint",
		}
		if legsComplete {
			summary.Legs = legs
		} else if a.last != nil {
			summary.Legs = a.last.Legs
		}
		a.last = summary
		return summary
	}

	if legsComplete {
		total := domain.RouteSummary{Legs: legs, Source: "legs"}
		for _, leg := range legs {
			total.TotalDistanceMeters += leg.DistanceMeters
			total.TotalDurationSeconds += leg.DurationSeconds
		}
		// A stale polyline from a previous pass still beats no polyline.
		if a.last != nil {
			total.Polyline = a.last.Polyline
		}
		a.last = &total
		return a.last
	}

	if a.observed != nil {
		summary := &domain.RouteSummary{
			TotalDistanceMeters:  a.observed.DistanceMeters,
			TotalDurationSeconds: a.observed.DurationSeconds,
			Source:               "observed",
		}
		if a.last != nil {
			summary.Legs = a.last.Legs
			summary.Polyline = a.last.Polyline
		}
		a.last = summary
		return summary
	}

	if a.last != nil {
		// Copy-on-write: summaries already handed out keep their
		// original source tag.
		retained := *a.last
		retained.Source = "retained"
		a.last = &retained
		return &retained
	}

	return nil
}
