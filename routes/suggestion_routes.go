package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterSuggestionRoutes sets up routes for AI chat openers.
func RegisterSuggestionRoutes(r *mux.Router, suggestions *services.SuggestionService, profiles *services.UserDirectory, matches *services.MatchService) {
	controller := controllers.NewSuggestionController(suggestions, profiles, matches)

	r.HandleFunc("/api/suggestions/openers", controller.GetOpeners).Methods("GET")
}
