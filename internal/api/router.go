package api

import (
	"net/http"

	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/planner"
	"trip-planner-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(
	sessions *planner.Manager,
	repo ports.PlanRepository,
	events ports.PlanEventPublisher,
	places ports.PlaceSearch,
) http.Handler {
	mux := http.NewServeMux()

	sessionHandler := &handlers.SessionHandler{Sessions: sessions}
	planHandler := &handlers.PlanHandler{Repo: repo, Events: events}
	placeHandler := &handlers.PlaceHandler{Places: places}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /sessions", sessionHandler.Create)
	mux.HandleFunc("GET /sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("POST /sessions/{id}/days", sessionHandler.AddDay)
	mux.HandleFunc("DELETE /sessions/{id}/days/{n}", sessionHandler.RemoveDay)
	mux.HandleFunc("POST /sessions/{id}/days/{n}/places", sessionHandler.AddPlace)
	mux.HandleFunc("DELETE /sessions/{id}/days/{n}/places/{key}", sessionHandler.RemovePlace)
	mux.HandleFunc("POST /sessions/{id}/days/{n}/reorder", sessionHandler.Reorder)
	mux.HandleFunc("PATCH /sessions/{id}/trip", sessionHandler.UpdateTrip)
	mux.HandleFunc("POST /sessions/{id}/mode", sessionHandler.SetMode)
	mux.HandleFunc("POST /sessions/{id}/route/observed", sessionHandler.ObserveRoute)
	mux.HandleFunc("POST /sessions/{id}/save", sessionHandler.Save)

	mux.HandleFunc("GET /plans", planHandler.List)
	mux.HandleFunc("GET /plans/{id}", planHandler.Get)
	mux.HandleFunc("DELETE /plans/{id}", planHandler.Delete)

	mux.HandleFunc("GET /places/search", placeHandler.Search)
	mux.HandleFunc("GET /places/{id}", placeHandler.Details)

	return loggingMiddleware(mux)
}
