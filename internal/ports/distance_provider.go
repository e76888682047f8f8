package ports

import (
	"context"
	"fmt"

	"trip-planner-service/internal/domain"
)

// Travel modes accepted by the distance and routing providers.
const (
	ModeDriving = "driving"
	ModeWalking = "walking"
	ModeCycling = "cycling"
)

// Distance and travel duration between two points.
type DistanceResult struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

// Contract for resolving travel distance and duration between two
// coordinate pairs.
type DistanceProvider interface {
	// Return travel distance and estimated duration from one point to
	// another for the given mode.
	GetDistance(ctx context.Context, from, to domain.Coordinates, mode string) (DistanceResult, error)
}

// LegCache memoizes pairwise distance results so repeated leg
// resolutions skip the external resolver. Implementations must be safe
// for concurrent use.
type LegCache interface {
	// Get returns the cached result for key, or nil on miss.
	Get(ctx context.Context, key string) (*DistanceResult, error)
	// Put stores the result for key.
	Put(ctx context.Context, key string, result DistanceResult) error
}

// LegCacheKey builds the cache key for a directed leg. Coordinates are
// rounded to 5 decimal places (~1m) to bound the key space.
func LegCacheKey(from, to domain.Coordinates, mode string) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%s", from.Lat, from.Lng, to.Lat, to.Lng, mode)
}
