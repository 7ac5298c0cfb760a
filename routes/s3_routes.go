package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for presigned photo URLs.
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	r.HandleFunc("/api/s3/generate-presigned-url", controller.GeneratePresignedURL).Methods("POST")
	r.HandleFunc("/api/s3/read-url", controller.GetReadURL).Methods("GET")
}
