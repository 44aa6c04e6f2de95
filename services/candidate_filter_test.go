package services

import (
	"testing"

	"blink_server/models"
	"blink_server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileAt(userID string, age int, gender string, lat, lng float64) models.UserProfile {
	return models.UserProfile{
		UserID:      userID,
		Age:         age,
		Gender:      gender,
		Latitude:    lat,
		Longitude:   lng,
		Preferences: models.DefaultPreferences(),
	}
}

func TestFilterRequiresRequesterLocation(t *testing.T) {
	requester := profileAt("alice", 28, "female", 0, 0)
	candidate := profileAt("bob", 30, "male", 40.7128, -74.0060)

	_, err := FilterCandidates(&requester, []models.UserProfile{candidate})
	assert.ErrorIs(t, err, ErrNoLocation)
}

func TestFilterSkipsCandidatesWithoutLocation(t *testing.T) {
	requester := profileAt("alice", 28, "female", 40.7128, -74.0060)
	candidate := profileAt("bob", 30, "male", 0, 0)

	matches, err := FilterCandidates(&requester, []models.UserProfile{candidate})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFilterEnforcesMaxDistance(t *testing.T) {
	// Manhattan and Los Angeles, far beyond any sensible radius
	requester := profileAt("alice", 28, "female", 40.7128, -74.0060)
	requester.Preferences.MaxDistance = 50
	far := profileAt("bob", 30, "male", 34.0522, -118.2437)
	near := profileAt("carol", 30, "female", 40.7306, -73.9866)

	matches, err := FilterCandidates(&requester, []models.UserProfile{far, near})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "carol", matches[0].UserID)
}

func TestFilterDistanceBoundaryIsInclusive(t *testing.T) {
	requester := profileAt("alice", 28, "female", 40.7128, -74.0060)
	candidate := profileAt("bob", 30, "male", 40.7306, -73.9866)

	// exactly the measured distance still matches
	requester.Preferences.MaxDistance = utils.CalculateDistance(
		requester.Latitude, requester.Longitude,
		candidate.Latitude, candidate.Longitude,
	)
	matches, err := FilterCandidates(&requester, []models.UserProfile{candidate})
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	// a hair under it does not
	requester.Preferences.MaxDistance -= 0.001
	matches, err = FilterCandidates(&requester, []models.UserProfile{candidate})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFilterIsMutual(t *testing.T) {
	requester := profileAt("alice", 45, "female", 40.7128, -74.0060)

	tooOldForCandidate := profileAt("bob", 30, "male", 40.7306, -73.9866)
	tooOldForCandidate.Preferences.AgeMin = 25
	tooOldForCandidate.Preferences.AgeMax = 40

	wrongGenderForCandidate := profileAt("dave", 44, "male", 40.7306, -73.9866)
	wrongGenderForCandidate.Preferences.Gender = "male"

	open := profileAt("erin", 46, "female", 40.7306, -73.9866)

	matches, err := FilterCandidates(&requester, []models.UserProfile{
		tooOldForCandidate, wrongGenderForCandidate, open,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "erin", matches[0].UserID)
}

func TestPickCandidateReturnsMember(t *testing.T) {
	requester := profileAt("alice", 28, "female", 40.7128, -74.0060)
	pool := []models.UserProfile{
		profileAt("bob", 30, "male", 40.7306, -73.9866),
		profileAt("carol", 27, "female", 40.7484, -73.9857),
	}

	picked, err := PickCandidate(&requester, pool)
	require.NoError(t, err)
	assert.Contains(t, []string{"bob", "carol"}, picked.UserID)
}

func TestPickCandidateEmptyPool(t *testing.T) {
	requester := profileAt("alice", 28, "female", 40.7128, -74.0060)

	_, err := PickCandidate(&requester, nil)
	assert.ErrorIs(t, err, ErrNoCandidate)
}
