package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"trip-planner-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Client
// errors carry the message through; everything else is logged and
// hidden behind a generic body.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoRouteFound):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNetworkFailure):
		log.Printf("upstream failure: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusBadGateway, "upstream service unavailable")
	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeStrict decodes exactly one JSON object from the body, rejecting
// unknown fields and trailing content.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json body", domain.ErrInvalidInput)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must contain only one JSON object", domain.ErrInvalidInput)
	}
	return nil
}
