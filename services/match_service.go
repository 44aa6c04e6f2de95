package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blink_server/models"
	"blink_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var (
	// ErrMatchNotFound is returned for lookups of unknown match ids.
	ErrMatchNotFound = errors.New("match not found")
	// ErrActiveMatchExists is returned when the requester already has a
	// live pairing; a user has at most one at a time.
	ErrActiveMatchExists = errors.New("an active match already exists")
)

type MatchService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
}

// FindMatch runs candidate discovery for userID and creates a pending match
// record with the picked candidate. Returns ErrNoCandidate when nobody fits.
func (ms *MatchService) FindMatch(ctx context.Context, userID string) (*models.UserProfile, *models.Match, error) {
	requester, err := ms.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !requester.HasCoordinates() {
		return nil, nil, ErrNoLocation
	}

	busy, err := ms.liveParticipants(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, taken := busy[userID]; taken {
		return nil, nil, ErrActiveMatchExists
	}

	now := time.Now().UTC()
	exclude := map[string]struct{}{userID: {}}
	for _, id := range requester.BlockedUsers {
		exclude[id] = struct{}{}
	}
	for _, id := range requester.RecentMatchIDs(now) {
		exclude[id] = struct{}{}
	}
	for id := range busy {
		exclude[id] = struct{}{}
	}

	// Coarse directory filter: requester-side age and gender preferences.
	// The mutual-fit predicate runs over the survivors.
	var candidates []models.UserProfile
	err = ms.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		id := utils.ExtractString(item, "userId")
		if _, excluded := exclude[id]; excluded {
			return false
		}
		age := utils.ExtractInt(item, "age")
		if age < requester.Preferences.AgeMin || age > requester.Preferences.AgeMax {
			return false
		}
		if requester.Preferences.Gender != models.PreferenceGenderBoth &&
			utils.ExtractString(item, "gender") != requester.Preferences.Gender {
			return false
		}
		return true
	}, &candidates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	candidate, err := PickCandidate(requester, candidates)
	if err != nil {
		return nil, nil, err
	}

	match := &models.Match{
		MatchID:      uuid.NewString(),
		ParticipantA: userID,
		ParticipantB: candidate.UserID,
		Status:       models.MatchStatusPending,
		DecisionA:    models.DecisionPending,
		DecisionB:    models.DecisionPending,
		CreatedAt:    now.Format(time.RFC3339),
	}
	if err := ms.SaveMatch(ctx, match); err != nil {
		return nil, nil, err
	}

	if err := ms.Profiles.AddRecentMatch(ctx, userID, candidate.UserID); err != nil {
		log.Printf("failed to record recent match for %s: %v", userID, err)
	}

	log.Printf("match %s created: %s ↔ %s", match.MatchID, userID, candidate.UserID)
	return candidate, match, nil
}

// GetMatch loads a match record by id.
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// SaveMatch persists a match record.
func (ms *MatchService) SaveMatch(ctx context.Context, match *models.Match) error {
	return ms.Dynamo.PutItem(ctx, models.MatchesTable, *match)
}

// GetActiveMatch returns the user's live match, or ErrMatchNotFound.
func (ms *MatchService) GetActiveMatch(ctx context.Context, userID string) (*models.Match, error) {
	matches, err := ms.scanLiveMatches(ctx)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].HasParticipant(userID) {
			return &matches[i], nil
		}
	}
	return nil, ErrMatchNotFound
}

// ExpireStaleMatches marks non-terminal records older than grace as ended.
// Recovers records orphaned by a process restart, which loses all live
// sessions. Returns the number of records swept.
func (ms *MatchService) ExpireStaleMatches(ctx context.Context, grace time.Duration) (int, error) {
	matches, err := ms.scanLiveMatches(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	swept := 0
	for i := range matches {
		createdAt, err := time.Parse(time.RFC3339, matches[i].CreatedAt)
		if err != nil || now.Sub(createdAt) < grace {
			continue
		}
		matches[i].Status = models.MatchStatusEnded
		matches[i].EndedAt = now.Format(time.RFC3339)
		if err := ms.SaveMatch(ctx, &matches[i]); err != nil {
			log.Printf("sweep: failed to expire match %s: %v", matches[i].MatchID, err)
			continue
		}
		swept++
	}
	if swept > 0 {
		log.Printf("sweep: expired %d stale matches", swept)
	}
	return swept, nil
}

// RunSweeper runs the stale-match sweep on an interval until ctx is done.
func (ms *MatchService) RunSweeper(ctx context.Context, interval, grace time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := ms.ExpireStaleMatches(ctx, grace); err != nil {
				log.Printf("sweep: %v", err)
			}
		}
	}
}

func (ms *MatchService) scanLiveMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	err := ms.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		switch utils.ExtractString(item, "status") {
		case models.MatchStatusPending, models.MatchStatusActive, models.MatchStatusExtended:
			return true
		}
		return false
	}, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to scan live matches: %w", err)
	}
	return matches, nil
}

func (ms *MatchService) liveParticipants(ctx context.Context) (map[string]struct{}, error) {
	matches, err := ms.scanLiveMatches(ctx)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]struct{}, len(matches)*2)
	for i := range matches {
		busy[matches[i].ParticipantA] = struct{}{}
		busy[matches[i].ParticipantB] = struct{}{}
	}
	return busy, nil
}
