package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"amora_server/services"
)

// S3Controller issues presigned URLs for profile photo storage.
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new S3Controller instance.
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// GeneratePresignedURL generates a presigned URL for S3 uploads.
func (sc *S3Controller) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		respondError(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	url, key, err := sc.S3Service.GenerateUploadURL(r.Context(), payload.FileName, payload.FileType)
	if err != nil {
		log.Printf("❌ Failed to generate upload URL: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"url": url,
		"key": key,
	})
}

// GetReadURL generates a presigned URL for reading a stored object.
func (sc *S3Controller) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := sc.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		log.Printf("❌ Failed to generate read URL: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate read URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
