package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Session states. Editing loops back to Ready after each applied edit;
// a failed save also returns to Ready with the in-memory plan intact.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateReady      State = "ready"
	StateEditing    State = "editing"
	StateSaving     State = "saving"
	StateSaved      State = "saved"
	StateFailed     State = "failed"
)

// Seed tuning for generation.
const (
	seedPlaceCount = 4

	// Distance-based base cost heuristic applied when the user's
	// location is known and no base cost was entered.
	baseCostFlat    = 120.0
	baseCostPerKm   = 0.35
	minimumBaseCost = 150.0
	materialRouteKm = 1.0
)

// Deps are the collaborators a session orchestrates.
type Deps struct {
	Geocoder   ports.Geocoder
	Places     ports.PlaceSearch
	Legs       *LegRouter
	Multi      *MultiPointRouter
	Aggregator *RouteAggregator
	Costs      *CostService
	Repo       ports.PlanRepository
	Events     ports.PlanEventPublisher

	// Now anchors availability-signal windows; defaults to time.Now.
	Now func() time.Time
}

// Session is the planner orchestrator: it wires the itinerary, the
// routers, the cost service, and the budget reconciler into one
// reactive pipeline and exposes a single consistent snapshot.
//
// All exported methods are safe for concurrent use. Route passes run in
// goroutines; generation guards in the routers keep out-of-order
// completions from ever being applied.
type Session struct {
	ID   string
	deps Deps

	mu          sync.Mutex
	state       State
	trip        domain.TripParameters
	itinerary   *domain.Itinerary
	destination *ports.GeocodeResult
	origin      *domain.Coordinates
	mode        string
	advisories  []string
	savedPlanID string

	inflight sync.WaitGroup
}

func NewSession(deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{
		ID:        uuid.NewString(),
		deps:      deps,
		state:     StateIdle,
		itinerary: domain.NewItinerary(),
		mode:      ports.ModeDriving,
	}
	deps.Costs.OnError = s.costFailed
	return s
}

func (s *Session) costFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advisories = append(s.advisories, "cost estimate unavailable; showing the last known breakdown")
	log.Printf("session=%s cost estimate failed: %v", s.ID, err)
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generate validates the trip, geocodes the destination, seeds Day 1
// with suggested places, and kicks off route and cost computation.
// Invalid input is rejected synchronously before any network call.
func (s *Session) Generate(ctx context.Context, trip domain.TripParameters, origin *domain.Coordinates) error {
	if err := trip.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateGenerating
	s.mu.Unlock()

	dest, err := s.deps.Geocoder.Geocode(ctx, trip.Destination)
	if err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		return fmt.Errorf("generate plan: %w", err)
	}

	s.mu.Lock()
	s.trip = trip
	s.origin = origin
	s.destination = &dest
	s.itinerary = domain.NewItinerary()
	s.advisories = nil
	s.savedPlanID = ""

	// Seed a distance-based base cost when we know where the user is
	// starting from and no base cost was entered.
	if origin != nil && origin.Valid() && s.trip.BasePerPerson == 0 {
		km := origin.HaversineMeters(dest.Coordinates) / 1000
		base := baseCostFlat + baseCostPerKm*km
		if base < minimumBaseCost {
			base = minimumBaseCost
		}
		s.trip.BasePerPerson = base
	}

	s.itinerary.AddDay()
	s.mu.Unlock()

	s.seedSuggestedPlaces(ctx)

	s.mu.Lock()
	s.state = StateReady
	s.recomputeRouteLocked(ctx)
	req := s.costRequestLocked()
	s.mu.Unlock()

	// First estimate runs synchronously so the initial snapshot is not
	// an empty breakdown.
	s.deps.Costs.RequestNow(ctx, req)
	return nil
}

func (s *Session) seedSuggestedPlaces(ctx context.Context) {
	s.mu.Lock()
	query := s.trip.Destination
	var near *domain.Coordinates
	if s.destination != nil {
		c := s.destination.Coordinates
		near = &c
	}
	s.mu.Unlock()

	found, err := s.deps.Places.Search(ctx, query, near, seedPlaceCount)
	if err != nil {
		s.mu.Lock()
		s.advisories = append(s.advisories, "place suggestions unavailable; start with an empty day")
		s.mu.Unlock()
		log.Printf("session=%s seed places failed: %v", s.ID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range found {
		stop := placeToStop(p)
		if err := s.itinerary.AddPlace(0, stop); err != nil {
			log.Printf("session=%s seed place %q: %v", s.ID, p.Name, err)
		}
	}
}

func placeToStop(p ports.Place) *domain.PlaceStop {
	return &domain.PlaceStop{
		Key:         domain.StopKey(p.ID),
		PlaceID:     p.ID,
		Name:        p.Name,
		Address:     p.Address,
		Coordinates: p.Coordinates,
		Categories:  p.Categories,
		Rating:      p.Rating,
		HeroImage:   p.ImageURL,
	}
}

var errNotGenerated = fmt.Errorf("%w: no plan generated yet", domain.ErrInvalidInput)

// edit runs one itinerary or trip mutation through the Editing state
// and triggers recomputation of every derived quantity.
func (s *Session) edit(ctx context.Context, mutate func() error) error {
	// Recomputation outlives the request that triggered it: the handler
	// writes its snapshot and returns while the route pass and the
	// debounced estimate are still pending. Keep the request's values,
	// drop its cancellation.
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.destination == nil {
		s.mu.Unlock()
		return errNotGenerated
	}

	s.state = StateEditing
	if err := mutate(); err != nil {
		s.state = StateReady
		s.mu.Unlock()
		return err
	}

	s.advisories = nil
	s.recomputeRouteLocked(ctx)
	req := s.costRequestLocked()
	s.state = StateReady
	s.mu.Unlock()

	s.deps.Costs.Request(ctx, req)
	return nil
}

// AddDay appends an empty day.
func (s *Session) AddDay(ctx context.Context) error {
	return s.edit(ctx, func() error {
		s.itinerary.AddDay()
		return nil
	})
}

// RemoveDay deletes the day at index and renumbers the rest.
func (s *Session) RemoveDay(ctx context.Context, index int) error {
	return s.edit(ctx, func() error {
		return s.itinerary.RemoveDay(index)
	})
}

// AddPlace inserts a place descriptor into the day at index.
func (s *Session) AddPlace(ctx context.Context, dayIndex int, place ports.Place) error {
	return s.edit(ctx, func() error {
		return s.itinerary.AddPlace(dayIndex, placeToStop(place))
	})
}

// AddPlaceByID resolves a place id through the place backend and adds
// it to the day at index.
func (s *Session) AddPlaceByID(ctx context.Context, dayIndex int, placeID string) error {
	place, err := s.deps.Places.Details(ctx, placeID)
	if err != nil {
		return fmt.Errorf("add place: %w", err)
	}
	return s.AddPlace(ctx, dayIndex, place)
}

// RemovePlace deletes the stop identified by key from the day at index.
func (s *Session) RemovePlace(ctx context.Context, dayIndex int, key string) error {
	return s.edit(ctx, func() error {
		return s.itinerary.RemovePlace(dayIndex, key)
	})
}

// Reorder relocates fromKey to the position held by toKey within a day.
func (s *Session) Reorder(ctx context.Context, dayIndex int, fromKey, toKey string) error {
	return s.edit(ctx, func() error {
		return s.itinerary.Reorder(dayIndex, fromKey, toKey)
	})
}

// TripEdit is a partial update of the trip parameters; nil fields are
// left unchanged.
type TripEdit struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Passengers    *int
	TravelClass   *string
	Season        *string
	BasePerPerson *float64
	TaxRatePct    *float64
	TripBudget    *float64
	AddOns        *domain.AddOnCosts
	Interests     []string
}

// UpdateTrip applies a partial trip edit. The edit is validated as a
// whole; an invalid combination leaves the parameters untouched.
func (s *Session) UpdateTrip(ctx context.Context, edit TripEdit) error {
	return s.edit(ctx, func() error {
		next := s.trip
		if edit.StartDate != nil {
			next.StartDate = *edit.StartDate
		}
		if edit.EndDate != nil {
			next.EndDate = *edit.EndDate
		}
		if edit.Passengers != nil {
			next.Passengers = *edit.Passengers
		}
		if edit.TravelClass != nil {
			next.TravelClass = *edit.TravelClass
		}
		if edit.Season != nil {
			next.Season = *edit.Season
		}
		if edit.BasePerPerson != nil {
			next.BasePerPerson = *edit.BasePerPerson
		}
		if edit.TaxRatePct != nil {
			next.TaxRatePct = *edit.TaxRatePct
		}
		if edit.TripBudget != nil {
			next.TripBudget = *edit.TripBudget
		}
		if edit.AddOns != nil {
			next.AddOns = *edit.AddOns
		}
		if edit.Interests != nil {
			next.Interests = edit.Interests
		}
		if err := next.Validate(); err != nil {
			return err
		}
		s.trip = next
		return nil
	})
}

// SetTravelMode switches the routing mode and recomputes.
func (s *Session) SetTravelMode(ctx context.Context, mode string) error {
	switch mode {
	case ports.ModeDriving, ports.ModeWalking, ports.ModeCycling:
	default:
		return fmt.Errorf("%w: unknown travel mode %q", domain.ErrInvalidInput, mode)
	}
	return s.edit(ctx, func() error {
		s.mode = mode
		return nil
	})
}

// ObserveRouteMetrics records totals reported by a rendered-route
// callback; the aggregator uses them when neither router can resolve.
func (s *Session) ObserveRouteMetrics(distanceMeters, durationSeconds int) {
	s.deps.Aggregator.SetObserved(&ObservedMetrics{
		DistanceMeters:  distanceMeters,
		DurationSeconds: durationSeconds,
	})
}

// recomputeRouteLocked dispatches a route pass for the current
// waypoints. Callers must hold s.mu; the pass itself runs in a
// goroutine and re-locks to apply results.
func (s *Session) recomputeRouteLocked(ctx context.Context) {
	// The pass must not die with the caller's request context.
	ctx = context.WithoutCancel(ctx)

	waypoints := s.waypointsLocked()

	if len(waypoints) < 2 {
		// The single case that clears instead of retaining. Bump the
		// generations so any in-flight pass lands stale.
		s.deps.Legs.Dispatch()
		s.deps.Multi.Dispatch()
		s.deps.Multi.Reset()
		s.deps.Aggregator.SetObserved(nil)
		s.deps.Aggregator.Update(len(waypoints), nil, nil)
		return
	}

	legGen := s.deps.Legs.Dispatch()
	multiGen := s.deps.Multi.Dispatch()
	mode := s.mode

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		multi, multiErr := s.deps.Multi.Resolve(ctx, multiGen, waypoints, mode)
		legs, legErr := s.deps.Legs.Resolve(ctx, legGen, waypoints, mode)

		s.mu.Lock()
		// Re-check currency under the lock: a newer pass may have been
		// dispatched while either resolution was in flight.
		if !s.deps.Multi.Current(multiGen) {
			multiErr = domain.ErrStaleResponse
		}
		if !s.deps.Legs.Current(legGen) {
			legErr = domain.ErrStaleResponse
		}
		if errors.Is(multiErr, domain.ErrStaleResponse) && errors.Is(legErr, domain.ErrStaleResponse) {
			s.mu.Unlock()
			return
		}

		if errors.Is(multiErr, domain.ErrStaleResponse) {
			multi = nil
		} else if multiErr != nil {
			s.advisories = append(s.advisories, "multi-stop routing unavailable; totals fall back to leg sums")
			log.Printf("session=%s multi-stop route failed: %v", s.ID, multiErr)
		}
		if errors.Is(legErr, domain.ErrStaleResponse) {
			legs = nil
		} else if legErr != nil {
			if errors.Is(legErr, domain.ErrNoRouteFound) {
				s.advisories = append(s.advisories, "no route found between some stops")
			} else {
				s.advisories = append(s.advisories, "leg distances unavailable; previous values retained")
			}
			log.Printf("session=%s leg resolution failed: %v", s.ID, legErr)
		}

		before := s.routeDistanceKmLocked()
		s.deps.Aggregator.Update(len(waypoints), multi, legs)
		after := s.routeDistanceKmLocked()
		req := s.costRequestLocked()
		s.mu.Unlock()

		// A materially changed route distance re-triggers the (debounced)
		// cost estimate.
		if diff := after - before; diff > materialRouteKm || diff < -materialRouteKm {
			s.deps.Costs.Request(ctx, req)
		}
	}()
}

func (s *Session) waypointsLocked() []domain.Waypoint {
	var destName string
	var destCoords *domain.Coordinates
	if s.destination != nil {
		destName = s.destination.FormattedAddress
		if destName == "" {
			destName = s.trip.Destination
		}
		c := s.destination.Coordinates
		destCoords = &c
	}
	return domain.BuildWaypoints(s.origin, s.itinerary, destName, destCoords)
}

func (s *Session) routeDistanceKmLocked() float64 {
	if summary := s.deps.Aggregator.Summary(); summary != nil {
		return float64(summary.TotalDistanceMeters) / 1000
	}
	return 0
}

func (s *Session) costRequestLocked() ports.CostRequest {
	return ports.CostRequest{
		Destination:    s.trip.Destination,
		BasePerPerson:  s.trip.BasePerPerson,
		Passengers:     s.trip.Passengers,
		Nights:         s.trip.Nights(),
		TravelClass:    s.trip.TravelClass,
		Season:         s.trip.Season,
		AddOns:         s.trip.AddOns.Total(),
		TaxesPct:       s.trip.TaxRatePct,
		Interests:      s.trip.Interests,
		TripDistanceKm: s.routeDistanceKmLocked(),
	}
}

// Save packages the current snapshot for persistence. Failure returns
// the session to Ready with the in-memory plan fully intact.
func (s *Session) Save(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.destination == nil {
		s.mu.Unlock()
		return "", errNotGenerated
	}
	s.state = StateSaving
	plan := s.buildPlanLocked()
	s.mu.Unlock()

	if err := s.deps.Repo.Save(ctx, plan); err != nil {
		s.mu.Lock()
		s.state = StateReady
		s.advisories = append(s.advisories, "saving failed; your plan is still here")
		s.mu.Unlock()
		return "", fmt.Errorf("save plan: %w", err)
	}

	s.mu.Lock()
	s.state = StateSaved
	s.savedPlanID = plan.ID
	s.mu.Unlock()

	if s.deps.Events != nil {
		if err := s.deps.Events.PlanSaved(ctx, plan); err != nil {
			log.Printf("session=%s plan saved event failed: %v", s.ID, err)
		}
	}

	return plan.ID, nil
}

func (s *Session) buildPlanLocked() *domain.PlanSnapshot {
	days := copyDays(s.itinerary.Days())

	var route *domain.RouteSummary
	if summary := s.deps.Aggregator.Summary(); summary != nil {
		copied := *summary
		route = &copied
	}

	return &domain.PlanSnapshot{
		ID:          s.savedPlanID,
		Destination: s.trip.Destination,
		Trip:        s.trip,
		Days:        days,
		Route:       route,
		Cost:        s.deps.Costs.Breakdown(),
		CreatedAt:   s.deps.Now().UTC(),
	}
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	SessionID   string                      `json:"session_id"`
	State       State                       `json:"state"`
	Trip        domain.TripParameters       `json:"trip"`
	Destination *ports.GeocodeResult        `json:"destination,omitempty"`
	Days        []*domain.ItineraryDay      `json:"days"`
	Route       *domain.RouteSummary        `json:"route,omitempty"`
	Cost        *domain.CostBreakdown       `json:"cost,omitempty"`
	Budget      domain.BudgetView           `json:"budget"`
	Signals     []domain.IntelligenceSignal `json:"signals"`
	Advisories  []string                    `json:"advisories,omitempty"`
	SavedPlanID string                      `json:"saved_plan_id,omitempty"`
}

// Snapshot returns one consistent view of the whole session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cost := s.deps.Costs.Breakdown()
	var breakdown domain.CostBreakdown
	if cost != nil {
		breakdown = *cost
	}

	view := domain.ReconcileBudget(s.trip, breakdown)
	var signals []domain.IntelligenceSignal
	if s.destination != nil {
		signals = domain.BuildSignals(s.trip, breakdown, view, s.deps.Now())
	}

	return Snapshot{
		SessionID:   s.ID,
		State:       s.state,
		Trip:        s.trip,
		Destination: s.destination,
		Days:        copyDays(s.itinerary.Days()),
		Route:       s.deps.Aggregator.Summary(),
		Cost:        cost,
		Budget:      view,
		Signals:     signals,
		Advisories:  append([]string(nil), s.advisories...),
		SavedPlanID: s.savedPlanID,
	}
}

func copyDays(days []*domain.ItineraryDay) []*domain.ItineraryDay {
	out := make([]*domain.ItineraryDay, 0, len(days))
	for _, d := range days {
		copied := &domain.ItineraryDay{
			DayNumber: d.DayNumber,
			Places:    append([]*domain.PlaceStop(nil), d.Places...),
		}
		out = append(out, copied)
	}
	return out
}

// Wait joins any in-flight route passes. Intended for handlers that
// want read-your-writes snapshots, and for tests.
func (s *Session) Wait() { s.inflight.Wait() }

// Manager tracks live planning sessions by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     func() Deps
}

// NewManager builds a session manager. deps is invoked per session so
// each gets its own routers and cost debouncer.
func NewManager(deps func() Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// Create starts a new session and generates its plan.
func (m *Manager) Create(ctx context.Context, trip domain.TripParameters, origin *domain.Coordinates) (*Session, error) {
	session := NewSession(m.deps())
	if err := session.Generate(ctx, trip, origin); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	return session, nil
}
