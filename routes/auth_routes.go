package routes

import (
	"blink_server/controllers"
	"blink_server/middleware"
	"blink_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up routes for authentication under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService) {
	controller := controllers.NewAuthController(authService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", controller.Register).Methods("POST")
	authRouter.HandleFunc("/login", controller.Login).Methods("POST")

	me := authRouter.PathPrefix("/me").Subrouter()
	me.Use(middleware.Auth(authService))
	me.HandleFunc("", controller.Me).Methods("GET")
}
