package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// Geocoder resolves free-text queries against the ORS geocode search
// endpoint (Pelias).
type Geocoder struct {
	client *Client
}

func NewGeocoder(client *Client) *Geocoder {
	return &Geocoder{client: client}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label    string `json:"label"`
			Locality string `json:"locality"`
			Region   string `json:"region"`
			Country  string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves one query to its best-ranked result.
func (g *Geocoder) Geocode(ctx context.Context, query string) (_ ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := strings.Join(strings.Fields(query), " ")
	if norm == "" {
		return ports.GeocodeResult{}, fmt.Errorf("%w: geocode query is empty", domain.ErrInvalidInput)
	}

	endpoint := g.client.baseURL + "/geocode/search"

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("%w: geocode %q: %v", domain.ErrNetworkFailure, norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("%w: no geocode results for %q", domain.ErrNoRouteFound, norm)
	}

	f := decoded.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return ports.GeocodeResult{}, fmt.Errorf("invalid coordinate format for %q", norm)
	}

	coords := domain.Coordinates{Lat: f.Geometry.Coordinates[1], Lng: f.Geometry.Coordinates[0]}
	if !coords.Valid() {
		return ports.GeocodeResult{}, fmt.Errorf("out-of-range coordinates for %q", norm)
	}

	return ports.GeocodeResult{
		FormattedAddress: f.Properties.Label,
		Coordinates:      coords,
		City:             f.Properties.Locality,
		State:            f.Properties.Region,
		Country:          f.Properties.Country,
	}, nil
}
