package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/planner"
	"trip-planner-service/internal/ports"
)

// SessionHandler exposes the planning session lifecycle: create and
// generate, itinerary edits, trip edits, and save.
type SessionHandler struct {
	Sessions *planner.Manager
}

// Create validates the trip, generates a plan, and returns the first
// snapshot. The initial route pass is joined so the response already
// carries totals instead of an empty summary.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	origin := domain.NormalizeCoordinates(req.Origin)
	if req.Origin != nil && origin == nil {
		writeDomainError(w, r, fmt.Errorf("%w: unrecognized origin location encoding", domain.ErrInvalidInput))
		return
	}

	session, err := h.Sessions.Create(r.Context(), req.Trip.ToDomain(), origin)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	session.Wait()
	writeJSON(w, r, http.StatusCreated, session.Snapshot())
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*planner.Session, bool) {
	session, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return session, true
}

// dayIndex converts the 1-based day number in the path to an index.
func dayIndex(r *http.Request) (int, error) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: day number must be a positive integer", domain.ErrInvalidInput)
	}
	return n - 1, nil
}

// Get returns the current snapshot without waiting on in-flight
// recomputation; clients poll for settled totals.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) AddDay(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.AddDay(r.Context()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) RemoveDay(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := dayIndex(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := session.RemoveDay(r.Context(), index); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := dayIndex(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.AddPlaceRequest
	if err := decodeStrict(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	switch {
	case req.PlaceID != "":
		err = session.AddPlaceByID(r.Context(), index, req.PlaceID)
	case req.Place != nil:
		err = session.AddPlace(r.Context(), index, ports.Place{
			ID:          req.Place.ID,
			Name:        req.Place.Name,
			Address:     req.Place.Address,
			Coordinates: domain.NormalizeCoordinates(req.Place.Location),
			Categories:  req.Place.Categories,
			Rating:      req.Place.Rating,
			ImageURL:    req.Place.ImageURL,
		})
	default:
		err = fmt.Errorf("%w: either place_id or place is required", domain.ErrInvalidInput)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) RemovePlace(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := dayIndex(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := session.RemovePlace(r.Context(), index, r.PathValue("key")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := dayIndex(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.ReorderRequest
	if err := decodeStrict(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if req.FromKey == "" || req.ToKey == "" {
		writeDomainError(w, r, fmt.Errorf("%w: from_key and to_key are required", domain.ErrInvalidInput))
		return
	}

	if err := session.Reorder(r.Context(), index, req.FromKey, req.ToKey); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.TripEditRequest
	if err := decodeStrict(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	edit := planner.TripEdit{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Passengers:    req.Passengers,
		TravelClass:   req.TravelClass,
		Season:        req.Season,
		BasePerPerson: req.BasePerPerson,
		TaxRatePct:    req.TaxRatePct,
		TripBudget:    req.TripBudget,
		AddOns:        req.AddOns,
		Interests:     req.Interests,
	}
	if err := session.UpdateTrip(r.Context(), edit); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.TravelModeRequest
	if err := decodeStrict(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := session.SetTravelMode(r.Context(), req.Mode); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) ObserveRoute(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.ObservedRouteRequest
	if err := decodeStrict(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	session.ObserveRouteMetrics(req.DistanceMeters, req.DurationSeconds)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	// Join in-flight route passes so the persisted snapshot carries the
	// latest totals.
	session.Wait()

	planID, err := session.Save(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SaveResponse{PlanID: planID})
}
