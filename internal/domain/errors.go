package domain

import "errors"

// Error taxonomy shared by the planner and its adapters.
//
// Network failures and missing routes are non-fatal: callers retain the
// last good derived value and surface an advisory string. A stale
// response is not an error condition at all; the sentinel exists so
// routers can signal "discarded, do not apply" without corrupting state.
var (
	// ErrInvalidInput marks requests rejected before any network call
	// (missing destination, missing/invalid dates, end before start).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNetworkFailure marks an unreachable or timed-out resolver.
	ErrNetworkFailure = errors.New("network failure")

	// ErrNoRouteFound marks valid waypoints with no resolvable path.
	ErrNoRouteFound = errors.New("no route found")

	// ErrStaleResponse marks a result that lost the generation race.
	// Never surfaced to users.
	ErrStaleResponse = errors.New("stale response")

	// ErrNotFound marks a missing persisted plan or itinerary entity.
	ErrNotFound = errors.New("not found")
)
