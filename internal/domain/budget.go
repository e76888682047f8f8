package domain

import (
	"fmt"
	"time"
)

// Severity levels for intelligence signals.
const (
	SignalAlert    = "alert"
	SignalWarning  = "warning"
	SignalInfo     = "info"
	SignalPositive = "positive"
)

// IntelligenceSignal is a non-blocking advisory about availability or
// budget risk. Signals never alter computed numbers and never block
// state transitions.
type IntelligenceSignal struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// BudgetView reconciles the declared (or inferred) budget against the
// latest cost breakdown.
type BudgetView struct {
	EffectiveBudget  float64 `json:"effective_budget"`
	PerPersonBudget  float64 `json:"per_person_budget"`
	Remaining        float64 `json:"remaining"`
	VarianceFraction float64 `json:"variance_fraction"`
	HasUserBudget    bool    `json:"has_user_budget"`
}

// ReconcileBudget combines trip parameters with the latest cost
// breakdown. A zero/negative user budget falls back to
// basePerPerson*passengers.
func ReconcileBudget(trip TripParameters, cost CostBreakdown) BudgetView {
	effective := trip.TripBudget
	hasUser := effective > 0
	if !hasUser {
		effective = trip.FallbackBudget()
	}

	passengers := trip.Passengers
	if passengers < 1 {
		passengers = 1
	}
	perPerson := effective / float64(passengers)

	variance := 0.0
	if perPerson > 0 {
		variance = (cost.PerPerson - perPerson) / perPerson
	}

	return BudgetView{
		EffectiveBudget:  effective,
		PerPersonBudget:  perPerson,
		Remaining:        effective - cost.Total,
		VarianceFraction: variance,
		HasUserBudget:    hasUser,
	}
}

// BuildSignals generates the advisory signal list for the current trip
// state. Multiple signals may fire simultaneously; they are pure
// observations and never modify the inputs. now anchors the
// availability window checks.
func BuildSignals(trip TripParameters, cost CostBreakdown, view BudgetView, now time.Time) []IntelligenceSignal {
	signals := []IntelligenceSignal{}

	daysUntil := int(trip.StartDate.Sub(now).Hours() / 24)
	switch {
	case daysUntil >= 0 && daysUntil <= 21:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalAlert,
			Message: fmt.Sprintf("Trip starts in %d days; book flights and stays now to lock availability.", daysUntil),
		})
	case daysUntil > 21 && daysUntil <= 45:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalWarning,
			Message: fmt.Sprintf("Trip starts in %d days; prices for %s typically rise inside six weeks.", daysUntil, trip.Destination),
		})
	}

	switch trip.Season {
	case SeasonPeak:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalWarning,
			Message: "Peak season travel: expect higher rates and limited availability.",
		})
	case SeasonOff:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalPositive,
			Message: "Off-peak season travel: better rates and availability expected.",
		})
	}

	if trip.DurationDays() >= 10 {
		signals = append(signals, IntelligenceSignal{
			Level:   SignalInfo,
			Message: "Long trip: consider splitting lodging across neighborhoods to cut accommodation cost.",
		})
	}

	if !view.HasUserBudget {
		signals = append(signals, IntelligenceSignal{
			Level:   SignalInfo,
			Message: fmt.Sprintf("No budget entered; using an auto-generated budget of %.0f.", view.EffectiveBudget),
		})
	}

	if view.VarianceFraction > 0.10 {
		signals = append(signals, IntelligenceSignal{
			Level:   SignalAlert,
			Message: fmt.Sprintf("Estimated per-person cost is %.0f%% over the per-person budget.", view.VarianceFraction*100),
		})
	} else if view.VarianceFraction < -0.10 {
		signals = append(signals, IntelligenceSignal{
			Level:   SignalPositive,
			Message: fmt.Sprintf("Estimated per-person cost is %.0f%% under the per-person budget.", -view.VarianceFraction*100),
		})
	}

	switch {
	case view.Remaining < 0:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalAlert,
			Message: fmt.Sprintf("Plan exceeds funding by %.2f; trim stops or raise the budget.", -view.Remaining),
		})
	case view.EffectiveBudget > 0 && view.Remaining < 0.15*view.EffectiveBudget:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalWarning,
			Message: fmt.Sprintf("Low buffer: only %.2f of the budget remains unallocated.", view.Remaining),
		})
	case view.EffectiveBudget > 0 && view.Remaining > 0.25*view.EffectiveBudget:
		signals = append(signals, IntelligenceSignal{
			Level:   SignalPositive,
			Message: fmt.Sprintf("Surplus of %.2f remains; room for upgrades or extra activities.", view.Remaining),
		})
	}

	return signals
}
