package planner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"trip-planner-service/internal/adapters/cost"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCostServiceDebounceCollapsesBursts(t *testing.T) {
	estimator := &cost.MockEstimator{}
	estimator.Set(domain.CostBreakdown{Total: 4200, PerPerson: 2100}, nil)
	svc := NewCostService(estimator, 30*time.Millisecond)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		svc.Request(ctx, ports.CostRequest{Destination: "Rome", Passengers: 2})
	}

	waitFor(t, func() bool { return svc.Breakdown() != nil })
	time.Sleep(100 * time.Millisecond) // no trailing extra runs

	if got := estimator.CallCount(); got != 1 {
		t.Errorf("estimator calls = %d, want 1 for a burst of edits", got)
	}
	if svc.Breakdown().Total != 4200 {
		t.Errorf("total = %v, want 4200", svc.Breakdown().Total)
	}
}

func TestCostServiceRequestNowIsSynchronous(t *testing.T) {
	estimator := &cost.MockEstimator{}
	estimator.Set(domain.CostBreakdown{Total: 900}, nil)
	svc := NewCostService(estimator, time.Hour) // debounce must not matter

	svc.RequestNow(context.Background(), ports.CostRequest{Destination: "Rome"})

	if svc.Breakdown() == nil || svc.Breakdown().Total != 900 {
		t.Fatalf("breakdown = %+v, want immediate 900 total", svc.Breakdown())
	}
	if estimator.CallCount() != 1 {
		t.Errorf("estimator calls = %d, want 1", estimator.CallCount())
	}
}

func TestCostServiceFailureRetainsLastBreakdown(t *testing.T) {
	estimator := &cost.MockEstimator{}
	estimator.Set(domain.CostBreakdown{Total: 900}, nil)
	svc := NewCostService(estimator, 10*time.Millisecond)

	var failures atomic.Int32
	svc.OnError = func(error) { failures.Add(1) }

	ctx := context.Background()
	svc.RequestNow(ctx, ports.CostRequest{Destination: "Rome"})

	estimator.Set(domain.CostBreakdown{}, domain.ErrNetworkFailure)
	svc.RequestNow(ctx, ports.CostRequest{Destination: "Rome", Passengers: 3})

	if svc.Breakdown() == nil || svc.Breakdown().Total != 900 {
		t.Errorf("breakdown = %+v, want previous 900 retained through failure", svc.Breakdown())
	}
	if failures.Load() != 1 {
		t.Errorf("OnError fired %d times, want 1", failures.Load())
	}
}

func TestCostServiceDebouncedRunSurvivesCancelledCaller(t *testing.T) {
	estimator := &cancelAwareEstimator{}
	svc := NewCostService(estimator, 10*time.Millisecond)

	// The caller's context is dead before the debounce fires.
	ctx, cancel := context.WithCancel(context.Background())
	svc.Request(ctx, ports.CostRequest{Destination: "Rome", Passengers: 2})
	cancel()

	waitFor(t, func() bool { return svc.Breakdown() != nil })
	if got := svc.Breakdown().Total; got != 2000 {
		t.Errorf("total = %v, want 2000 from the completed estimate", got)
	}
}

func TestCostServiceLatestRequestWins(t *testing.T) {
	estimator := &cost.MockEstimator{}
	estimator.Set(domain.CostBreakdown{Total: 100}, nil)
	svc := NewCostService(estimator, 20*time.Millisecond)

	ctx := context.Background()
	svc.Request(ctx, ports.CostRequest{Destination: "Rome", Passengers: 1})
	svc.Request(ctx, ports.CostRequest{Destination: "Rome", Passengers: 4})

	waitFor(t, func() bool { return svc.Breakdown() != nil })

	estimator.Set(domain.CostBreakdown{}, nil) // freeze; inspect last request
	if got := estimator.LastReq.Passengers; got != 4 {
		t.Errorf("estimated passengers = %d, want latest request (4)", got)
	}
}
