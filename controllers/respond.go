package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"amora_server/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrActorNotFound),
		errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrConversationNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSelfTarget),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrInvalidMessage):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadySwiped),
		errors.Is(err, services.ErrMatchConflict),
		errors.Is(err, services.ErrConversationConflict),
		errors.Is(err, services.ErrMatchInactive):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotAParticipant):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("❌ Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
