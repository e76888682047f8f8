package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Aggregate multi-stop route over an ordered waypoint list, returned by
// the external routing service in a single call.
type MultiPointRoute struct {
	DistanceMeters  int                  `json:"distance_meters"`
	DurationSeconds int                  `json:"duration_seconds"`
	DistanceKm      float64              `json:"distance_km"`
	DurationMinutes float64              `json:"duration_minutes"`
	Polyline        []domain.Coordinates `json:"polyline,omitempty"`
}

// Contract for the multi-stop routing service. Implementations route
// the entire ordered list (minimum 2 points) in one external call,
// reflecting real road topology rather than independent pairwise
// segments.
type RouteProvider interface {
	GetRoute(ctx context.Context, waypoints []domain.Coordinates, mode string) (MultiPointRoute, error)
}
