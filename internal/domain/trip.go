package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Travel season tags understood by the cost estimator and the
// availability signals.
const (
	SeasonPeak     = "peak"
	SeasonShoulder = "shoulder"
	SeasonOff      = "off"
)

// AddOnCosts are fixed per-trip extras layered on top of the base
// estimate.
type AddOnCosts struct {
	Visa      float64 `json:"visa"`
	Insurance float64 `json:"insurance"`
	Buffer    float64 `json:"buffer"`
}

// Total of all add-on amounts.
func (a AddOnCosts) Total() float64 { return a.Visa + a.Insurance + a.Buffer }

// TripParameters hold every user-editable input to planning. They are
// mutated only through explicit user edits; all routing and cost
// entities are derived from them plus the itinerary.
type TripParameters struct {
	Destination   string     `json:"destination"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Passengers    int        `json:"passengers"`
	TravelClass   string     `json:"travel_class"`
	Season        string     `json:"season"`
	BasePerPerson float64    `json:"base_per_person"`
	AddOns        AddOnCosts `json:"add_ons"`
	TaxRatePct    float64    `json:"tax_rate_pct"`
	Interests     []string   `json:"interests,omitempty"`

	// TripBudget is the user-entered total budget. Zero means "not
	// entered"; the reconciler falls back to BasePerPerson*Passengers.
	TripBudget float64 `json:"trip_budget"`
}

// Validate rejects parameters before any network call is made.
func (t TripParameters) Validate() error {
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}
	if t.Passengers < 1 {
		return fmt.Errorf("%w: passengers must be at least 1", ErrInvalidInput)
	}
	return nil
}

// Nights returns the stay length in nights: ceil((end-start)/1 day),
// minimum 1. Same-day trips still book one night of costs.
func (t TripParameters) Nights() int {
	days := t.EndDate.Sub(t.StartDate).Hours() / 24
	n := int(math.Ceil(days))
	if n < 1 {
		return 1
	}
	return n
}

// DurationDays is the inclusive trip length used by availability
// signals.
func (t TripParameters) DurationDays() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// FallbackBudget is the computed budget used when the user has not
// entered one.
func (t TripParameters) FallbackBudget() float64 {
	passengers := t.Passengers
	if passengers < 1 {
		passengers = 1
	}
	return t.BasePerPerson * float64(passengers)
}
