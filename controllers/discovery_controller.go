package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"amora_server/services"
)

// DiscoveryController handles the swipe feed and swipe recording.
type DiscoveryController struct {
	DiscoveryService *services.DiscoveryService
}

// NewDiscoveryController creates a new DiscoveryController instance.
func NewDiscoveryController(discoveryService *services.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{DiscoveryService: discoveryService}
}

// GetFeed returns ranked candidates for the requesting user.
func (dc *DiscoveryController) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	candidates, err := dc.DiscoveryService.SelectCandidates(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"profiles": candidates})
}

// RecordSwipe stores a swipe decision and reports whether it formed a
// match.
func (dc *DiscoveryController) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID   string `json:"userId"`
		TargetID string `json:"targetId"`
		Action   string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.UserID == "" || payload.TargetID == "" || payload.Action == "" {
		respondError(w, http.StatusBadRequest, "userId, targetId and action are required")
		return
	}

	result, err := dc.DiscoveryService.RecordSwipe(r.Context(), payload.UserID, payload.TargetID, payload.Action)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLikes lists users who liked the requesting user.
func (dc *DiscoveryController) GetLikes(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	likers, err := dc.DiscoveryService.GetLikes(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"likes": likers})
}

// GetSwipeHistory lists the user's own swipes, optionally filtered by
// action.
func (dc *DiscoveryController) GetSwipeHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	swipes, err := dc.DiscoveryService.SwipeHistory(r.Context(), userID, r.URL.Query().Get("action"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"swipes": swipes})
}
