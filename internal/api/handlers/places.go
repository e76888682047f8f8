package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

const defaultPlaceLimit = 10

// PlaceHandler exposes place search and details lookups.
type PlaceHandler struct {
	Places ports.PlaceSearch
}

func (h *PlaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeDomainError(w, r, fmt.Errorf("%w: query parameter q is required", domain.ErrInvalidInput))
		return
	}

	limit := defaultPlaceLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			writeDomainError(w, r, fmt.Errorf("%w: limit must be between 1 and 50", domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	var near *domain.Coordinates
	latRaw, lngRaw := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if latRaw != "" && lngRaw != "" {
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lng, errLng := strconv.ParseFloat(lngRaw, 64)
		if errLat != nil || errLng != nil {
			writeDomainError(w, r, fmt.Errorf("%w: lat and lng must be numbers", domain.ErrInvalidInput))
			return
		}
		near = domain.NormalizeCoordinates([2]float64{lat, lng})
		if near == nil {
			writeDomainError(w, r, fmt.Errorf("%w: lat/lng out of range", domain.ErrInvalidInput))
			return
		}
	}

	places, err := h.Places.Search(r.Context(), q, near, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string][]ports.Place{"places": places})
}

func (h *PlaceHandler) Details(w http.ResponseWriter, r *http.Request) {
	place, err := h.Places.Details(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, place)
}
