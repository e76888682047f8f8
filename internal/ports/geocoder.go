package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Resolved location for a free-text query.
type GeocodeResult struct {
	FormattedAddress string             `json:"formatted_address"`
	Coordinates      domain.Coordinates `json:"coordinates"`
	City             string             `json:"city,omitempty"`
	State            string             `json:"state,omitempty"`
	Country          string             `json:"country,omitempty"`
}

// Contract for resolving a free-text location query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodeResult, error)
}
