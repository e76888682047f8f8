package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Place descriptor returned by the place search/details backend.
type Place struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Address      string              `json:"address"`
	Coordinates  *domain.Coordinates `json:"coordinates,omitempty"`
	Categories   []string            `json:"categories,omitempty"`
	Rating       float64             `json:"rating,omitempty"`
	OpeningHours string              `json:"opening_hours,omitempty"`
	ImageURL     string              `json:"image_url,omitempty"`
}

// Contract for the place search/details backend.
type PlaceSearch interface {
	// Search returns up to limit places matching a free-text query,
	// optionally biased toward near.
	Search(ctx context.Context, query string, near *domain.Coordinates, limit int) ([]Place, error)
	// Details returns the full descriptor for a place id.
	Details(ctx context.Context, placeID string) (Place, error)
}
