package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"trip-planner-service/internal/domain"
)

// MemoryPlanRepository is an in-process plan store for tests and
// ephemeral runs. FailSave injects a save failure.
type MemoryPlanRepository struct {
	mu       sync.Mutex
	plans    map[string]*domain.PlanSnapshot
	FailSave error
}

func NewMemoryPlanRepository() *MemoryPlanRepository {
	return &MemoryPlanRepository{plans: make(map[string]*domain.PlanSnapshot)}
}

func (r *MemoryPlanRepository) Save(_ context.Context, plan *domain.PlanSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSave != nil {
		return r.FailSave
	}

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *MemoryPlanRepository) List(_ context.Context) ([]*domain.PlanSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.PlanSnapshot, 0, len(r.plans))
	for _, p := range r.plans {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemoryPlanRepository) Get(_ context.Context, id string) (*domain.PlanSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: plan %q", domain.ErrNotFound, id)
	}
	copied := *p
	return &copied, nil
}

func (r *MemoryPlanRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[id]; !ok {
		return fmt.Errorf("%w: plan %q", domain.ErrNotFound, id)
	}
	delete(r.plans, id)
	return nil
}
