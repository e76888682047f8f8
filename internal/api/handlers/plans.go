package handlers

import (
	"log"
	"net/http"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/ports"
)

// PlanHandler exposes the saved-plan store.
type PlanHandler struct {
	Repo   ports.PlanRepository
	Events ports.PlanEventPublisher
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListPlansResponse{Plans: make([]dto.PlanListItem, 0, len(plans))}
	for _, p := range plans {
		res.Plans = append(res.Plans, dto.PlanToListItem(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Repo.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if h.Events != nil {
		if err := h.Events.PlanDeleted(r.Context(), id); err != nil {
			log.Printf("plan deleted event failed: id=%s err=%v", id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
