package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blink_server/middleware"
	"blink_server/services"
	"blink_server/session"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for match discovery and decisions.
// Decision and skip go through the coordinator so the REST path and the
// realtime path share one transition table.
type MatchController struct {
	MatchService *services.MatchService
	Coordinator  *session.Coordinator
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, coordinator *session.Coordinator) *MatchController {
	return &MatchController{MatchService: matchService, Coordinator: coordinator}
}

// FindMatch runs candidate discovery and creates a pending match
func (mc *MatchController) FindMatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	candidate, match, err := mc.MatchService.FindMatch(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoCandidate):
			// Not an error: there is simply nobody to pair right now.
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"match":   nil,
				"message": "No matches available",
			})
		case errors.Is(err, services.ErrNoLocation):
			http.Error(w, "Location not set", http.StatusBadRequest)
		case errors.Is(err, services.ErrActiveMatchExists):
			http.Error(w, "An active match already exists", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"match":   match,
		"partner": candidate,
	})
}

// SubmitDecision records the caller's yes/no for a match
func (mc *MatchController) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	matchID := mux.Vars(r)["matchId"]

	var payload struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	match, err := mc.Coordinator.SubmitDecision(r.Context(), matchID, userID, payload.Decision)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"match":    match,
		"extended": match.Extended,
	})
}

// Skip ends the caller's match immediately
func (mc *MatchController) Skip(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	matchID := mux.Vars(r)["matchId"]

	match, err := mc.Coordinator.Skip(r.Context(), matchID, userID)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Match skipped",
		"match":   match,
	})
}

// GetActiveMatch returns the caller's live match, if any
func (mc *MatchController) GetActiveMatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	match, err := mc.MatchService.GetActiveMatch(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrMatchNotFound) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"match": nil})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"match": match})
}

func writeCoordinatorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		http.Error(w, "Match not found", http.StatusNotFound)
	case errors.Is(err, session.ErrNotParticipant):
		http.Error(w, "Not your match", http.StatusForbidden)
	case errors.Is(err, session.ErrInvalidDecision):
		http.Error(w, "Invalid decision", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
