package routes

import (
	"blink_server/controllers"
	"blink_server/middleware"
	"blink_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, authService *services.AuthService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.Use(middleware.Auth(authService))

	profileRouter.HandleFunc("/me", controller.UpdateProfile).Methods("PUT")
	profileRouter.HandleFunc("/me/location", controller.UpdateLocation).Methods("PUT")
	profileRouter.HandleFunc("/me/preferences", controller.UpdatePreferences).Methods("PUT")
	profileRouter.HandleFunc("/{userId}", controller.GetUserProfileByID).Methods("GET")
	profileRouter.HandleFunc("/{userId}/block", controller.BlockUser).Methods("POST")
	profileRouter.HandleFunc("/{userId}/report", controller.ReportUser).Methods("POST")
}
