package controllers

import (
	"log"
	"net/http"

	"amora_server/services"
)

// SuggestionController serves AI-generated chat openers for a match.
type SuggestionController struct {
	Suggestions *services.SuggestionService
	Profiles    *services.UserDirectory
	Matches     *services.MatchService
}

// NewSuggestionController creates a new SuggestionController instance.
func NewSuggestionController(suggestions *services.SuggestionService, profiles *services.UserDirectory, matches *services.MatchService) *SuggestionController {
	return &SuggestionController{Suggestions: suggestions, Profiles: profiles, Matches: matches}
}

// GetOpeners returns styled conversation starters for a match.
func (sc *SuggestionController) GetOpeners(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	userID := r.URL.Query().Get("userId")
	if matchID == "" || userID == "" {
		respondError(w, http.StatusBadRequest, "matchId and userId are required")
		return
	}

	match, err := sc.Matches.GetMatchByID(r.Context(), matchID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	sender, err := sc.Profiles.GetProfile(r.Context(), userID)
	if err != nil || sender == nil {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}

	openers, err := sc.Suggestions.GenerateOpeners(r.Context(), sender.Interests, match.User.Interests)
	if err != nil {
		log.Printf("❌ Failed to generate openers: %v", err)
		respondError(w, http.StatusBadGateway, "Failed to generate suggestions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": openers})
}
