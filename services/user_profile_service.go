package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrProfileNotFound is returned when no profile exists for a lookup.
var ErrProfileNotFound = errors.New("profile not found")

type UserProfileService struct {
	Dynamo *DynamoService
}

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetUserProfileByEmail looks a profile up by email address. Returns
// ErrProfileNotFound when no profile carries the address.
func (ups *UserProfileService) GetUserProfileByEmail(ctx context.Context, emailID string) (*models.UserProfile, error) {
	var profiles []models.UserProfile
	err := ups.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		if attr, ok := item["emailId"]; ok {
			if v, ok := attr.(*types.AttributeValueMemberS); ok {
				return v.Value == emailID
			}
		}
		return false
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by email: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrProfileNotFound
	}
	return &profiles[0], nil
}

// SaveUserProfile writes the full profile back.
func (ups *UserProfileService) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	return ups.Dynamo.PutItem(ctx, models.UserProfilesTable, *profile)
}

// SetOnlineStatus flips the user's presence flag and refreshes lastActive.
func (ups *UserProfileService) SetOnlineStatus(ctx context.Context, userID string, online bool) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET isOnline = :online, lastActive = :lastActive"
	expressionAttributeValues := map[string]types.AttributeValue{
		":online":     &types.AttributeValueMemberBOOL{Value: online},
		":lastActive": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, nil)
	if err != nil {
		return fmt.Errorf("failed to update online status for %s: %w", userID, err)
	}
	log.Printf("user %s online=%v", userID, online)
	return nil
}

// BlockUser adds targetID to the user's block list. Blocking twice is a no-op.
func (ups *UserProfileService) BlockUser(ctx context.Context, userID, targetID string) error {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile.HasBlocked(targetID) {
		return nil
	}
	profile.BlockedUsers = append(profile.BlockedUsers, targetID)
	return ups.SaveUserProfile(ctx, profile)
}

// ReportUser records a report against targetID.
func (ups *UserProfileService) ReportUser(ctx context.Context, userID, targetID, reason string) error {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}
	profile.Reports = append(profile.Reports, models.Report{
		UserID:     targetID,
		Reason:     reason,
		ReportedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return ups.SaveUserProfile(ctx, profile)
}

// AddRecentMatch appends a recency-exclusion entry after a successful pairing.
func (ups *UserProfileService) AddRecentMatch(ctx context.Context, userID, otherUserID string) error {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}
	profile.RecentMatches = append(profile.RecentMatches, models.RecentMatch{
		UserID:    otherUserID,
		MatchedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return ups.SaveUserProfile(ctx, profile)
}
