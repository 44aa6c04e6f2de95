package models

import "time"

// Match statuses
const (
	MatchStatusPending  = "pending"
	MatchStatusActive   = "active"
	MatchStatusExtended = "extended"
	MatchStatusEnded    = "ended"
)

// Participant decisions
const (
	DecisionPending = "pending"
	DecisionYes     = "yes"
	DecisionNo      = "no"
)

// Gender preference accepting either gender
const PreferenceGenderBoth = "both"

// RecencyWindow is how long a previous match keeps a user out of discovery.
const RecencyWindow = 24 * time.Hour
