package routes

import (
	"blink_server/controllers"
	"blink_server/middleware"
	"blink_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for photo storage under /api/photos
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, authService *services.AuthService) {
	controller := controllers.NewS3Controller(s3Service)

	photoRouter := r.PathPrefix("/api/photos").Subrouter()
	photoRouter.Use(middleware.Auth(authService))

	photoRouter.HandleFunc("/upload-url", controller.GeneratePresignedURL).Methods("POST")
	photoRouter.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}
