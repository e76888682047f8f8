package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Inputs to the external cost-estimation backend.
type CostRequest struct {
	Destination    string   `json:"destination"`
	BasePerPerson  float64  `json:"base_per_person"`
	Passengers     int      `json:"passengers"`
	Nights         int      `json:"nights"`
	TravelClass    string   `json:"travel_class"`
	Season         string   `json:"season"`
	AddOns         float64  `json:"add_ons"`
	TaxesPct       float64  `json:"taxes_pct"`
	Interests      []string `json:"interests,omitempty"`
	TripDistanceKm float64  `json:"trip_distance_km,omitempty"`
}

// Contract for turning trip parameters into a cost breakdown.
type CostEstimator interface {
	Estimate(ctx context.Context, req CostRequest) (domain.CostBreakdown, error)
}
