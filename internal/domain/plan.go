package domain

import "time"

// PlanSnapshot packages the current session state for persistence:
// destination, days with resolved coordinates, route annotations, and
// the latest cost estimate. It is the only shape the persistence store
// sees; a save failure leaves the in-memory session untouched.
type PlanSnapshot struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	Trip        TripParameters  `json:"trip"`
	Days        []*ItineraryDay `json:"days"`
	Route       *RouteSummary   `json:"route,omitempty"`
	Cost        *CostBreakdown  `json:"cost,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
