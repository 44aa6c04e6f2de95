package services

import (
	"errors"
	"math/rand"

	"blink_server/models"
	"blink_server/utils"
)

var (
	// ErrNoLocation is returned when the requester has no coordinates set.
	ErrNoLocation = errors.New("location not set")
	// ErrNoCandidate is returned when the filtered candidate set is empty.
	// Distinct from a failure: there is simply nobody to pair right now.
	ErrNoCandidate = errors.New("no candidate available")
)

// FilterCandidates applies the mutual-fit predicate over a coarsely
// pre-filtered candidate set. A candidate survives when it is within the
// requester's max distance (inclusive), its own age/gender preferences
// accept the requester, and it has coordinates. Pure, no I/O.
func FilterCandidates(requester *models.UserProfile, candidates []models.UserProfile) ([]models.UserProfile, error) {
	if !requester.HasCoordinates() {
		return nil, ErrNoLocation
	}

	var matches []models.UserProfile
	for _, candidate := range candidates {
		if !candidate.HasCoordinates() {
			continue
		}

		distance := utils.CalculateDistance(
			requester.Latitude, requester.Longitude,
			candidate.Latitude, candidate.Longitude,
		)
		if distance > requester.Preferences.MaxDistance {
			continue
		}

		// Mutual fit: the candidate's stated preferences must also
		// accept the requester.
		if requester.Age < candidate.Preferences.AgeMin || requester.Age > candidate.Preferences.AgeMax {
			continue
		}
		if candidate.Preferences.Gender != models.PreferenceGenderBoth && candidate.Preferences.Gender != requester.Gender {
			continue
		}

		matches = append(matches, candidate)
	}
	return matches, nil
}

// PickCandidate filters and selects one candidate uniformly at random.
func PickCandidate(requester *models.UserProfile, candidates []models.UserProfile) (*models.UserProfile, error) {
	matches, err := FilterCandidates(requester, candidates)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoCandidate
	}
	picked := matches[rand.Intn(len(matches))]
	return &picked, nil
}
