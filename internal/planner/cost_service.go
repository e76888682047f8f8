package planner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// DefaultCostDebounce is the delay between the last qualifying input
// change and the estimate call; rapid consecutive edits collapse into
// one network call.
const DefaultCostDebounce = 350 * time.Millisecond

// CostService recomputes the cost breakdown through the external
// estimator, debounced on input changes. On failure the previous
// breakdown is retained and a non-fatal advisory is reported.
type CostService struct {
	estimator ports.CostEstimator
	delay     time.Duration
	gen       atomic.Uint64

	// OnUpdate and OnError fire after a completed (non-stale) estimate.
	// Set before the first Request; called without internal locks held.
	OnUpdate func(domain.CostBreakdown)
	OnError  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending ports.CostRequest
	last    *domain.CostBreakdown
}

func NewCostService(estimator ports.CostEstimator, delay time.Duration) *CostService {
	if delay <= 0 {
		delay = DefaultCostDebounce
	}
	return &CostService{estimator: estimator, delay: delay}
}

// Breakdown returns the latest successful estimate, nil before the
// first completion.
func (s *CostService) Breakdown() *domain.CostBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Request schedules a recomputation for req. A pending recomputation
// within the debounce window is cancelled and rescheduled; only the
// latest request survives.
func (s *CostService) Request(ctx context.Context, req ports.CostRequest) {
	// The estimate fires after the caller has moved on; keep the
	// context's values but not its cancellation.
	ctx = context.WithoutCancel(ctx)
	gen := s.gen.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = req
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, gen)
	})
}

// RequestNow bypasses the debounce and estimates synchronously. Used
// during generation, where the first estimate should not lag the plan.
func (s *CostService) RequestNow(ctx context.Context, req ports.CostRequest) {
	gen := s.gen.Add(1)
	s.mu.Lock()
	s.pending = req
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.run(ctx, gen)
}

func (s *CostService) run(ctx context.Context, gen uint64) {
	s.mu.Lock()
	req := s.pending
	s.mu.Unlock()

	if s.gen.Load() != gen {
		// A newer request was scheduled while this one waited.
		return
	}

	breakdown, err := s.estimator.Estimate(ctx, req)

	// Apply only if still the latest dispatched estimate.
	if s.gen.Load() != gen {
		return
	}

	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}

	s.mu.Lock()
	s.last = &breakdown
	s.mu.Unlock()

	if s.OnUpdate != nil {
		s.OnUpdate(breakdown)
	}
}
