package cost

import (
	"context"
	"testing"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

func TestLocalEstimatorBreakdown(t *testing.T) {
	est := NewLocalEstimator()

	got, err := est.Estimate(context.Background(), ports.CostRequest{
		Destination:   "Rome",
		BasePerPerson: 500,
		Passengers:    2,
		Nights:        4,
		Season:        domain.SeasonShoulder,
		TaxesPct:      10,
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	// travel 500*2 = 1000; accommodation 90*4*1 = 360; activities 35*4*2 = 280.
	if got.Breakdown.Travel != 1000 {
		t.Errorf("travel = %v, want 1000", got.Breakdown.Travel)
	}
	if got.Breakdown.Accommodation != 360 {
		t.Errorf("accommodation = %v, want 360", got.Breakdown.Accommodation)
	}
	if got.Breakdown.Activities != 280 {
		t.Errorf("activities = %v, want 280", got.Breakdown.Activities)
	}
	if got.Tax != 164 {
		t.Errorf("tax = %v, want 10%% of 1640", got.Tax)
	}
	if got.Total != 1804 {
		t.Errorf("total = %v, want 1804", got.Total)
	}
	if got.PerPerson != 902 {
		t.Errorf("per person = %v, want 902", got.PerPerson)
	}
}

func TestLocalEstimatorSeasonAndClassScaleTravel(t *testing.T) {
	est := NewLocalEstimator()
	base := ports.CostRequest{BasePerPerson: 100, Passengers: 1, Nights: 1}

	shoulder, _ := est.Estimate(context.Background(), base)

	peak := base
	peak.Season = domain.SeasonPeak
	peakOut, _ := est.Estimate(context.Background(), peak)
	if peakOut.Total <= shoulder.Total {
		t.Errorf("peak total %v not above shoulder %v", peakOut.Total, shoulder.Total)
	}

	business := base
	business.TravelClass = "business"
	bizOut, _ := est.Estimate(context.Background(), business)
	if bizOut.Breakdown.Travel != 180 {
		t.Errorf("business travel = %v, want 100 x 1.8", bizOut.Breakdown.Travel)
	}
}

func TestLocalEstimatorDefaultsDegenerateInputs(t *testing.T) {
	est := NewLocalEstimator()

	got, err := est.Estimate(context.Background(), ports.CostRequest{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	// Zero passengers and nights clamp to 1; no division blowups.
	if got.PerPerson != got.Total {
		t.Errorf("per person = %v, want equal to total for one traveler", got.PerPerson)
	}
}
