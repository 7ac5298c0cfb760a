package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterDiscoveryRoutes sets up routes for the swipe feed and swipe
// recording under /api/discovery.
func RegisterDiscoveryRoutes(r *mux.Router, discoveryService *services.DiscoveryService) {
	controller := controllers.NewDiscoveryController(discoveryService)

	discoveryRouter := r.PathPrefix("/api/discovery").Subrouter()

	discoveryRouter.HandleFunc("/feed", controller.GetFeed).Methods("GET")
	discoveryRouter.HandleFunc("/swipe", controller.RecordSwipe).Methods("POST")
	discoveryRouter.HandleFunc("/likes", controller.GetLikes).Methods("GET")
	discoveryRouter.HandleFunc("/history", controller.GetSwipeHistory).Methods("GET")
}
