package controllers

import (
	"encoding/json"
	"net/http"

	"amora_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for match-related actions.
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance.
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetMatches lists the user's active matches.
func (mc *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	matches, err := mc.MatchService.GetMatches(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetMatch fetches one match by id for a participant.
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	userID := r.URL.Query().Get("userId")
	if matchID == "" || userID == "" {
		respondError(w, http.StatusBadRequest, "matchId and userId are required")
		return
	}

	match, err := mc.MatchService.GetMatchByID(r.Context(), matchID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, match)
}

// CheckMatch reports whether two users have an active match.
func (mc *MatchController) CheckMatch(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	otherID := r.URL.Query().Get("otherUserId")
	if userID == "" || otherID == "" {
		respondError(w, http.StatusBadRequest, "userId and otherUserId are required")
		return
	}

	match, err := mc.MatchService.CheckMatchWith(r.Context(), userID, otherID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"isMatch": match != nil,
		"match":   match,
	})
}

// Unmatch ends a match for both participants.
func (mc *MatchController) Unmatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := mc.MatchService.Unmatch(r.Context(), matchID, payload.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Unmatched successfully"})
}
