package models

import "time"

// Preferences holds a user's matching criteria.
type Preferences struct {
	AgeMin      int     `dynamodbav:"ageMin" json:"ageMin"`
	AgeMax      int     `dynamodbav:"ageMax" json:"ageMax"`
	Gender      string  `dynamodbav:"gender" json:"gender"`
	MaxDistance float64 `dynamodbav:"maxDistance" json:"maxDistance"`
}

// DefaultPreferences mirrors the defaults applied when a user never set any.
func DefaultPreferences() Preferences {
	return Preferences{AgeMin: 18, AgeMax: 100, Gender: PreferenceGenderBoth, MaxDistance: 50}
}

// RecentMatch is one entry of a user's recency-exclusion history.
type RecentMatch struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	MatchedAt string `dynamodbav:"matchedAt" json:"matchedAt"`
}

// Report is a record of this user reporting another.
type Report struct {
	UserID     string `dynamodbav:"userId" json:"userId"`
	Reason     string `dynamodbav:"reason" json:"reason"`
	ReportedAt string `dynamodbav:"reportedAt" json:"reportedAt"`
}

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID        string        `dynamodbav:"userId" json:"userId"`
	EmailID       string        `dynamodbav:"emailId" json:"emailId"`
	PasswordHash  string        `dynamodbav:"passwordHash,omitempty" json:"-"`
	DisplayName   string        `dynamodbav:"displayName" json:"displayName"`
	Age           int           `dynamodbav:"age" json:"age"`
	Bio           string        `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Gender        string        `dynamodbav:"gender" json:"gender"`
	City          string        `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Latitude      float64       `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     float64       `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	Photos        []string      `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	Preferences   Preferences   `dynamodbav:"preferences" json:"preferences"`
	RecentMatches []RecentMatch `dynamodbav:"recentMatches,omitempty" json:"recentMatches,omitempty"`
	BlockedUsers  []string      `dynamodbav:"blockedUsers,omitempty" json:"-"`
	Reports       []Report      `dynamodbav:"reports,omitempty" json:"-"`
	IsOnline      bool          `dynamodbav:"isOnline" json:"isOnline"`
	LastActive    string        `dynamodbav:"lastActive,omitempty" json:"lastActive,omitempty"`
	CreatedAt     string        `dynamodbav:"createdAt" json:"createdAt"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// HasCoordinates reports whether the profile carries a usable location.
func (p *UserProfile) HasCoordinates() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

// HasBlocked reports whether the profile has blocked the given user.
func (p *UserProfile) HasBlocked(userID string) bool {
	for _, id := range p.BlockedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// RecentMatchIDs returns ids of users matched within the recency window,
// relative to now. Older entries are ignored, not deleted.
func (p *UserProfile) RecentMatchIDs(now time.Time) []string {
	var ids []string
	for _, rm := range p.RecentMatches {
		matchedAt, err := time.Parse(time.RFC3339, rm.MatchedAt)
		if err != nil {
			continue
		}
		if now.Sub(matchedAt) < RecencyWindow {
			ids = append(ids, rm.UserID)
		}
	}
	return ids
}
