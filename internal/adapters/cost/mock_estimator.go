package cost

import (
	"context"
	"sync"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockEstimator serves a scripted breakdown and records requests.
type MockEstimator struct {
	mu        sync.Mutex
	Breakdown domain.CostBreakdown
	Err       error
	Calls     int
	LastReq   ports.CostRequest
}

func (m *MockEstimator) Set(b domain.CostBreakdown, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Breakdown = b
	m.Err = err
}

func (m *MockEstimator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockEstimator) Estimate(ctx context.Context, req ports.CostRequest) (domain.CostBreakdown, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastReq = req
	if m.Err != nil {
		return domain.CostBreakdown{}, m.Err
	}
	return m.Breakdown, nil
}
