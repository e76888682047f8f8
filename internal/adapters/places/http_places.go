package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// HTTPPlaceSearch calls the external place search/details backend.
type HTTPPlaceSearch struct {
	session *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPPlaceSearch(baseURL, apiKey string) (*HTTPPlaceSearch, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("place search base URL is empty")
	}
	return &HTTPPlaceSearch{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}, nil
}

type placePayload struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Location     any      `json:"location"`
	Categories   []string `json:"categories"`
	Rating       float64  `json:"rating"`
	OpeningHours string   `json:"opening_hours"`
	ImageURL     string   `json:"image_url"`
}

func (p placePayload) toPlace() ports.Place {
	return ports.Place{
		ID:      p.ID,
		Name:    p.Name,
		Address: p.Address,
		// Upstream location shapes vary; normalize and drop the
		// unresolvable rather than failing the whole response.
		Coordinates:  domain.NormalizeCoordinates(p.Location),
		Categories:   p.Categories,
		Rating:       p.Rating,
		OpeningHours: p.OpeningHours,
		ImageURL:     p.ImageURL,
	}
}

func (s *HTTPPlaceSearch) get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create place request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.URL.RawQuery = query.Encode()

	resp, err := s.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: place request: %v", domain.ErrNetworkFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: place status %d: %s", domain.ErrNetworkFailure, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

// Search returns up to limit places for a free-text query, optionally
// biased toward near.
func (s *HTTPPlaceSearch) Search(ctx context.Context, query string, near *domain.Coordinates, limit int) (_ []ports.Place, err error) {
	defer obs.Time(ctx, "places.Search")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	if near != nil && near.Valid() {
		q.Set("lat", strconv.FormatFloat(near.Lat, 'f', 5, 64))
		q.Set("lng", strconv.FormatFloat(near.Lng, 'f', 5, 64))
	}

	resp, err := s.get(ctx, s.baseURL+"/places/search", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded struct {
		Places []placePayload `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode place search response: %w", err)
	}

	out := make([]ports.Place, 0, len(decoded.Places))
	for _, p := range decoded.Places {
		out = append(out, p.toPlace())
	}
	return out, nil
}

// Details returns the full descriptor for a place id.
func (s *HTTPPlaceSearch) Details(ctx context.Context, placeID string) (_ ports.Place, err error) {
	defer obs.Time(ctx, "places.Details")(&err)

	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return ports.Place{}, fmt.Errorf("%w: place id is empty", domain.ErrInvalidInput)
	}

	resp, err := s.get(ctx, s.baseURL+"/places/"+url.PathEscape(placeID), url.Values{})
	if err != nil {
		return ports.Place{}, err
	}
	defer resp.Body.Close()

	var decoded placePayload
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Place{}, fmt.Errorf("decode place details response: %w", err)
	}
	return decoded.toPlace(), nil
}
