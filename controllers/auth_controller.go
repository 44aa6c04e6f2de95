package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blink_server/middleware"
	"blink_server/services"
)

// AuthController handles registration, login and identity lookups
type AuthController struct {
	AuthService *services.AuthService
}

// NewAuthController creates a new AuthController instance
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register handles new account creation
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		Age         int    `json:"age"`
		Gender      string `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	token, profile, err := ac.AuthService.Register(r.Context(), payload.Email, payload.Password, payload.DisplayName, payload.Age, payload.Gender)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  profile,
	})
}

// Login handles credential verification
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	token, profile, err := ac.AuthService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  profile,
	})
}

// Me returns the profile of the authenticated user
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	profile, err := ac.AuthService.Profiles.GetUserProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"user": profile})
}
