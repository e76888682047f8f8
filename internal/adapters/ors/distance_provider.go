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

// DistanceProvider resolves pairwise distance/duration through the ORS
// matrix endpoint.
type DistanceProvider struct {
	client *Client
}

func NewDistanceProvider(client *Client) *DistanceProvider {
	return &DistanceProvider{client: client}
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// GetDistance fetches one directed leg. A reachable service that cannot
// route the pair (null matrix cells) surfaces as ErrNoRouteFound.
func (p *DistanceProvider) GetDistance(
	ctx context.Context,
	from, to domain.Coordinates,
	mode string,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistance")(&err)

	if !from.Valid() || !to.Valid() {
		return ports.DistanceResult{}, fmt.Errorf("%w: leg endpoints must be valid coordinates", domain.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", p.client.baseURL, profileFor(mode))

	bodyObj := matrixRequest{
		Locations:    [][]float64{from.CoordsToList(), to.CoordsToList()},
		Destinations: []int{1},
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := p.client.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return p.client.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("%w: matrix request: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 ||
		len(mr.Distances[0]) != 1 || len(mr.Durations[0]) != 1 {
		return ports.DistanceResult{}, fmt.Errorf("unexpected matrix shape: distances=%d durations=%d", len(mr.Distances), len(mr.Durations))
	}

	metersPtr := mr.Distances[0][0]
	secondsPtr := mr.Durations[0][0]
	if metersPtr == nil || secondsPtr == nil {
		return ports.DistanceResult{}, fmt.Errorf("%w: matrix returned no metrics for leg", domain.ErrNoRouteFound)
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(*metersPtr)),
		DurationSeconds: int(math.Round(*secondsPtr)),
	}, nil
}
