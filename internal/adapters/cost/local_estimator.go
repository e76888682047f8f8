package cost

import (
	"context"
	"math"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Heuristic rates for the built-in estimator. Deliberately coarse: the
// local estimator exists so the planner works without the external
// estimate service, not to be accurate.
const (
	nightlyRoomRate    = 90.0
	activityRatePerDay = 35.0
	travelRatePerKm    = 0.12
	interestUplift     = 0.10
)

// LocalEstimator computes a cost breakdown from the request alone,
// without any network call. Used as the fallback when no estimate
// service is configured.
type LocalEstimator struct{}

func NewLocalEstimator() *LocalEstimator { return &LocalEstimator{} }

func seasonFactor(season string) float64 {
	switch strings.ToLower(season) {
	case domain.SeasonPeak:
		return 1.25
	case domain.SeasonOff:
		return 0.85
	default:
		return 1.0
	}
}

func classFactor(class string) float64 {
	switch strings.ToLower(class) {
	case "premium", "premium_economy":
		return 1.35
	case "business":
		return 1.8
	case "first":
		return 2.5
	default:
		return 1.0
	}
}

func (e *LocalEstimator) Estimate(_ context.Context, req ports.CostRequest) (domain.CostBreakdown, error) {
	passengers := req.Passengers
	if passengers < 1 {
		passengers = 1
	}
	nights := req.Nights
	if nights < 1 {
		nights = 1
	}

	travel := req.BasePerPerson*float64(passengers)*seasonFactor(req.Season)*classFactor(req.TravelClass) +
		req.TripDistanceKm*travelRatePerKm*float64(passengers)

	rooms := float64((passengers + 1) / 2)
	accommodation := nightlyRoomRate * float64(nights) * rooms * seasonFactor(req.Season)

	activities := activityRatePerDay * float64(nights) * float64(passengers) *
		(1 + interestUplift*float64(len(req.Interests)))

	pretax := travel + accommodation + activities + req.AddOns
	tax := pretax * req.TaxesPct / 100
	total := round2(pretax + tax)

	return domain.CostBreakdown{
		Total:     total,
		PerPerson: round2(total / float64(passengers)),
		Tax:       round2(tax),
		Breakdown: domain.CostCategories{
			Accommodation: round2(accommodation),
			Activities:    round2(activities),
			Travel:        round2(travel),
		},
	}, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
