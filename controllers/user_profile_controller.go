package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blink_server/middleware"
	"blink_server/models"
	"blink_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for profile operations
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// GetUserProfileByID handles fetching another user's public profile
func (upc *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := upc.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"user": profile})
}

// UpdateProfile applies the allowed profile fields from the request body
func (upc *UserProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var payload struct {
		DisplayName *string   `json:"displayName"`
		Age         *int      `json:"age"`
		Bio         *string   `json:"bio"`
		Gender      *string   `json:"gender"`
		Photos      *[]string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := upc.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	if payload.DisplayName != nil {
		profile.DisplayName = *payload.DisplayName
	}
	if payload.Age != nil {
		profile.Age = *payload.Age
	}
	if payload.Bio != nil {
		profile.Bio = *payload.Bio
	}
	if payload.Gender != nil {
		profile.Gender = *payload.Gender
	}
	if payload.Photos != nil {
		profile.Photos = *payload.Photos
	}

	if err := upc.UserProfileService.SaveUserProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"user": profile})
}

// UpdateLocation sets the user's city and coordinates
func (upc *UserProfileController) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var payload struct {
		City string  `json:"city"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := upc.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	profile.City = payload.City
	profile.Latitude = payload.Lat
	profile.Longitude = payload.Lng

	if err := upc.UserProfileService.SaveUserProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"city": profile.City,
		"lat":  profile.Latitude,
		"lng":  profile.Longitude,
	})
}

// UpdatePreferences replaces the user's matching preferences
func (upc *UserProfileController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var payload models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	defaults := models.DefaultPreferences()
	if payload.AgeMin == 0 {
		payload.AgeMin = defaults.AgeMin
	}
	if payload.AgeMax == 0 {
		payload.AgeMax = defaults.AgeMax
	}
	if payload.Gender == "" {
		payload.Gender = defaults.Gender
	}
	if payload.MaxDistance == 0 {
		payload.MaxDistance = defaults.MaxDistance
	}

	profile, err := upc.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	profile.Preferences = payload
	if err := upc.UserProfileService.SaveUserProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"preferences": profile.Preferences})
}

// BlockUser adds the target user to the caller's block list
func (upc *UserProfileController) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	targetID := mux.Vars(r)["userId"]

	if err := upc.UserProfileService.BlockUser(r.Context(), userID, targetID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User blocked"})
}

// ReportUser records a report against the target user
func (upc *UserProfileController) ReportUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	targetID := mux.Vars(r)["userId"]

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := upc.UserProfileService.ReportUser(r.Context(), userID, targetID, payload.Reason); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User reported"})
}
