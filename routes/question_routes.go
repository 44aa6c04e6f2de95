package routes

import (
	"blink_server/controllers"
	"blink_server/services"

	"github.com/gorilla/mux"
)

// RegisterQuestionRoutes sets up routes for the static question banks under /api/questions
func RegisterQuestionRoutes(r *mux.Router, questionService *services.QuestionService) {
	controller := controllers.NewQuestionController(questionService)

	questionRouter := r.PathPrefix("/api/questions").Subrouter()
	questionRouter.HandleFunc("/all", controller.GetAll).Methods("GET")
	questionRouter.HandleFunc("/icebreakers", controller.GetIceBreakers).Methods("GET")
	questionRouter.HandleFunc("/wouldyourather", controller.GetWouldYouRather).Methods("GET")
	questionRouter.HandleFunc("/twotruths", controller.GetTwoTruths).Methods("GET")
}
