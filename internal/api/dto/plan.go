package dto

import (
	"time"

	"trip-planner-service/internal/domain"
)

// PlanListItem is the summary row for saved-plan listings; the full
// snapshot is fetched per id.
type PlanListItem struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	Days        int       `json:"days"`
	Places      int       `json:"places"`
	TotalCost   float64   `json:"total_cost"`
	CreatedAt   time.Time `json:"created_at"`
}

func PlanToListItem(p *domain.PlanSnapshot) PlanListItem {
	item := PlanListItem{
		ID:          p.ID,
		Destination: p.Destination,
		Days:        len(p.Days),
		CreatedAt:   p.CreatedAt,
	}
	for _, d := range p.Days {
		item.Places += len(d.Places)
	}
	if p.Cost != nil {
		item.TotalCost = p.Cost.Total
	}
	return item
}

type ListPlansResponse struct {
	Plans []PlanListItem `json:"plans"`
}
