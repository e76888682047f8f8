package cost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// HTTPEstimator calls the external cost-estimation backend.
type HTTPEstimator struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPEstimator(baseURL, apiKey string) (*HTTPEstimator, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("cost estimator base URL is empty")
	}
	return &HTTPEstimator{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

type estimateResponse struct {
	Total     float64 `json:"total"`
	PerPerson float64 `json:"per_person"`
	Tax       float64 `json:"tax"`
	Breakdown struct {
		Accommodation float64 `json:"accommodation"`
		Activities    float64 `json:"activities"`
		Travel        float64 `json:"travel"`
	} `json:"breakdown"`
}

// Estimate posts the trip parameters and returns the backend's
// breakdown. Failures map to ErrNetworkFailure; the caller retains its
// previous breakdown.
func (e *HTTPEstimator) Estimate(ctx context.Context, req ports.CostRequest) (_ domain.CostBreakdown, err error) {
	defer obs.Time(ctx, "cost.Estimate")(&err)

	payload, err := json.Marshal(req)
	if err != nil {
		return domain.CostBreakdown{}, fmt.Errorf("marshal estimate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/estimate", bytes.NewReader(payload))
	if err != nil {
		return domain.CostBreakdown{}, fmt.Errorf("create estimate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.session.Do(httpReq)
	if err != nil {
		return domain.CostBreakdown{}, fmt.Errorf("%w: estimate request: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return domain.CostBreakdown{}, fmt.Errorf("%w: estimate status %d: %s", domain.ErrNetworkFailure, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.CostBreakdown{}, fmt.Errorf("decode estimate response: %w", err)
	}

	return domain.CostBreakdown{
		Total:     decoded.Total,
		PerPerson: decoded.PerPerson,
		Tax:       decoded.Tax,
		Breakdown: domain.CostCategories{
			Accommodation: decoded.Breakdown.Accommodation,
			Activities:    decoded.Breakdown.Activities,
			Travel:        decoded.Breakdown.Travel,
		},
	}, nil
}
