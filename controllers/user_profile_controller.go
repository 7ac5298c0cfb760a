package controllers

import (
	"encoding/json"
	"net/http"

	"amora_server/models"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles profile CRUD.
type UserProfileController struct {
	Profiles *services.UserDirectory
}

// NewUserProfileController creates a new UserProfileController instance.
func NewUserProfileController(profiles *services.UserDirectory) *UserProfileController {
	return &UserProfileController{Profiles: profiles}
}

// CreateProfile registers a new user profile.
func (uc *UserProfileController) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if profile.UserID == "" || profile.Name == "" || profile.Gender == "" {
		respondError(w, http.StatusBadRequest, "userId, name and gender are required")
		return
	}
	switch profile.Gender {
	case models.GenderMale, models.GenderFemale, models.GenderNonbinary:
	default:
		respondError(w, http.StatusBadRequest, "gender must be male, female or nonbinary")
		return
	}

	created, err := uc.Profiles.AddProfile(r.Context(), profile)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetProfile fetches one profile by id.
func (uc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := uc.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies partial string-field updates to a profile.
func (uc *UserProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil || len(updates) == 0 {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := uc.Profiles.UpdateProfile(r.Context(), userID, updates)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteProfile removes a profile.
func (uc *UserProfileController) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := uc.Profiles.DeleteProfile(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted"})
}
