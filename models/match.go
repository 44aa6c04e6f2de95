package models

// Match represents one pairing window between two users. Status is derived
// from the two decisions plus timeout/skip, never set independently.
type Match struct {
	MatchID      string `dynamodbav:"matchId" json:"matchId"`
	ParticipantA string `dynamodbav:"participantA" json:"participantA"`
	ParticipantB string `dynamodbav:"participantB" json:"participantB"`
	Status       string `dynamodbav:"status" json:"status"`
	DecisionA    string `dynamodbav:"decisionA" json:"decisionA"`
	DecisionB    string `dynamodbav:"decisionB" json:"decisionB"`
	Extended     bool   `dynamodbav:"extended" json:"extended"`
	StartedAt    string `dynamodbav:"startedAt,omitempty" json:"startedAt,omitempty"`
	EndedAt      string `dynamodbav:"endedAt,omitempty" json:"endedAt,omitempty"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// HasParticipant reports whether userID is one of the two participants.
func (m *Match) HasParticipant(userID string) bool {
	return m.ParticipantA == userID || m.ParticipantB == userID
}

// DecisionOf returns the stored decision for the given participant.
func (m *Match) DecisionOf(userID string) string {
	if m.ParticipantA == userID {
		return m.DecisionA
	}
	return m.DecisionB
}

// SetDecision records a decision for the given participant.
func (m *Match) SetDecision(userID, decision string) {
	if m.ParticipantA == userID {
		m.DecisionA = decision
	} else {
		m.DecisionB = decision
	}
}

// OtherParticipant returns the participant paired with userID.
func (m *Match) OtherParticipant(userID string) string {
	if m.ParticipantA == userID {
		return m.ParticipantB
	}
	return m.ParticipantA
}

// IsLive reports whether the match is in a non-terminal status.
func (m *Match) IsLive() bool {
	return m.Status == MatchStatusPending || m.Status == MatchStatusActive || m.Status == MatchStatusExtended
}
