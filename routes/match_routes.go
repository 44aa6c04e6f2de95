package routes

import (
	"blink_server/controllers"
	"blink_server/middleware"
	"blink_server/services"
	"blink_server/session"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, coordinator *session.Coordinator, authService *services.AuthService) {
	controller := controllers.NewMatchController(matchService, coordinator)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.Use(middleware.Auth(authService))

	matchRouter.HandleFunc("/find", controller.FindMatch).Methods("POST")
	matchRouter.HandleFunc("/decision/{matchId}", controller.SubmitDecision).Methods("PUT")
	matchRouter.HandleFunc("/skip/{matchId}", controller.Skip).Methods("POST")
	matchRouter.HandleFunc("/active", controller.GetActiveMatch).Methods("GET")
}
