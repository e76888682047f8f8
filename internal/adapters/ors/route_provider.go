package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// RouteProvider resolves a whole ordered waypoint list through the ORS
// directions endpoint in one call, returning aggregate metrics and the
// route geometry.
type RouteProvider struct {
	client *Client
}

func NewRouteProvider(client *Client) *RouteProvider {
	return &RouteProvider{client: client}
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute routes the entire ordered list in a single external call.
// At least two waypoints are required.
func (p *RouteProvider) GetRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
	mode string,
) (_ ports.MultiPointRoute, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	if len(waypoints) < 2 {
		return ports.MultiPointRoute{}, fmt.Errorf("%w: at least 2 waypoints required, got %d", domain.ErrInvalidInput, len(waypoints))
	}

	coords := make([][]float64, 0, len(waypoints))
	for _, wp := range waypoints {
		if !wp.Valid() {
			return ports.MultiPointRoute{}, fmt.Errorf("%w: waypoint out of range", domain.ErrInvalidInput)
		}
		coords = append(coords, wp.CoordsToList())
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", p.client.baseURL, profileFor(mode))

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return ports.MultiPointRoute{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := p.client.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return p.client.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return ports.MultiPointRoute{}, fmt.Errorf("%w: directions request: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.MultiPointRoute{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.MultiPointRoute{}, fmt.Errorf("%w: directions returned no routes", domain.ErrNoRouteFound)
	}

	feature := dr.Features[0]
	polyline := make([]domain.Coordinates, 0, len(feature.Geometry.Coordinates))
	for _, pair := range feature.Geometry.Coordinates {
		if len(pair) != 2 {
			continue
		}
		polyline = append(polyline, domain.Coordinates{Lat: pair[1], Lng: pair[0]})
	}

	meters := feature.Properties.Summary.Distance
	seconds := feature.Properties.Summary.Duration

	return ports.MultiPointRoute{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
		DistanceKm:      meters / 1000,
		DurationMinutes: seconds / 60,
		Polyline:        polyline,
	}, nil
}
