package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Port: a boundary for persisting finished itineraries. The store is
// opaque to the planner beyond these shapes.
type PlanRepository interface {
	Save(ctx context.Context, plan *domain.PlanSnapshot) error
	List(ctx context.Context) ([]*domain.PlanSnapshot, error)
	Get(ctx context.Context, id string) (*domain.PlanSnapshot, error)
	Delete(ctx context.Context, id string) error
}

// Port: plan lifecycle event sink. Implementations must tolerate being
// absent; publishing is best-effort and never blocks planning.
type PlanEventPublisher interface {
	PlanSaved(ctx context.Context, plan *domain.PlanSnapshot) error
	PlanDeleted(ctx context.Context, id string) error
}
