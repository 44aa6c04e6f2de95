package controllers

import (
	"encoding/json"
	"net/http"

	"blink_server/services"
)

// QuestionController serves the static profile-setup question banks
type QuestionController struct {
	QuestionService *services.QuestionService
}

// NewQuestionController creates a new QuestionController instance
func NewQuestionController(questionService *services.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// GetAll returns every question bank
func (qc *QuestionController) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(qc.QuestionService.All())
}

// GetIceBreakers returns the ice breaker bank only
func (qc *QuestionController) GetIceBreakers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"iceBreakers": qc.QuestionService.IceBreakers()})
}

// GetWouldYouRather returns the would-you-rather bank only
func (qc *QuestionController) GetWouldYouRather(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"wouldYouRatherQuestions": qc.QuestionService.WouldYouRather()})
}

// GetTwoTruths returns the two-truths-one-lie examples only
func (qc *QuestionController) GetTwoTruths(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"twoTruthsOneLieExamples": qc.QuestionService.TwoTruths()})
}
