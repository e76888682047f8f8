package places

import (
	"context"
	"fmt"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockPlaceSearch serves scripted results keyed by query/id.
type MockPlaceSearch struct {
	ByQuery map[string][]ports.Place
	ByID    map[string]ports.Place
	Err     error
}

func (m *MockPlaceSearch) Search(ctx context.Context, query string, near *domain.Coordinates, limit int) ([]ports.Place, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := m.ByQuery[query]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockPlaceSearch) Details(ctx context.Context, placeID string) (ports.Place, error) {
	if m.Err != nil {
		return ports.Place{}, m.Err
	}
	p, ok := m.ByID[placeID]
	if !ok {
		return ports.Place{}, fmt.Errorf("%w: place %q", domain.ErrNotFound, placeID)
	}
	return p, nil
}
