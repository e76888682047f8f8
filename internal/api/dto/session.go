package dto

import (
	"time"

	"trip-planner-service/internal/domain"
)

// TripPayload carries the full trip parameter set on session creation.
type TripPayload struct {
	Destination   string             `json:"destination"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	Passengers    int                `json:"passengers"`
	TravelClass   string             `json:"travel_class"`
	Season        string             `json:"season"`
	BasePerPerson float64            `json:"base_per_person"`
	AddOns        *domain.AddOnCosts `json:"add_ons"`
	TaxRatePct    float64            `json:"tax_rate_pct"`
	Interests     []string           `json:"interests"`
	TripBudget    float64            `json:"trip_budget"`
}

func (p TripPayload) ToDomain() domain.TripParameters {
	trip := domain.TripParameters{
		Destination:   p.Destination,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Passengers:    p.Passengers,
		TravelClass:   p.TravelClass,
		Season:        p.Season,
		BasePerPerson: p.BasePerPerson,
		TaxRatePct:    p.TaxRatePct,
		Interests:     p.Interests,
		TripBudget:    p.TripBudget,
	}
	if p.AddOns != nil {
		trip.AddOns = *p.AddOns
	}
	return trip
}

// CreateSessionRequest starts planning. Origin accepts any of the
// supported location encodings ([lat,lng], {lat,lng},
// {latitude,longitude}, GeoJSON) and may be omitted.
type CreateSessionRequest struct {
	Trip   TripPayload `json:"trip"`
	Origin any         `json:"origin,omitempty"`
}

// TripEditRequest is a partial trip update; absent fields stay as-is.
type TripEditRequest struct {
	StartDate     *time.Time         `json:"start_date,omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
	Passengers    *int               `json:"passengers,omitempty"`
	TravelClass   *string            `json:"travel_class,omitempty"`
	Season        *string            `json:"season,omitempty"`
	BasePerPerson *float64           `json:"base_per_person,omitempty"`
	TaxRatePct    *float64           `json:"tax_rate_pct,omitempty"`
	TripBudget    *float64           `json:"trip_budget,omitempty"`
	AddOns        *domain.AddOnCosts `json:"add_ons,omitempty"`
	Interests     []string           `json:"interests,omitempty"`
}

// PlacePayload is an inline place descriptor; Location accepts the same
// encodings as CreateSessionRequest.Origin.
type PlacePayload struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Location   any      `json:"location,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// AddPlaceRequest adds a stop either by backend place id or inline.
type AddPlaceRequest struct {
	PlaceID string        `json:"place_id,omitempty"`
	Place   *PlacePayload `json:"place,omitempty"`
}

type ReorderRequest struct {
	FromKey string `json:"from_key"`
	ToKey   string `json:"to_key"`
}

type TravelModeRequest struct {
	Mode string `json:"mode"`
}

// ObservedRouteRequest reports totals from a rendered-route callback.
type ObservedRouteRequest struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

type SaveResponse struct {
	PlanID string `json:"plan_id"`
}
