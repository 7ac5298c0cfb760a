package services

import (
	"context"
	"fmt"
	"time"

	"amora_server/models"
	"amora_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserDirectory is the candidate repository: filtered, paged lookup over
// the user store. Profiles are owned by the profile collaborator; the
// matching core treats them as read-only except for the thin CRUD surface
// and activity bookkeeping.
type UserDirectory struct {
	Dynamo *DynamoService
}

// GetProfile retrieves a user profile by ID. A missing profile is
// (nil, nil); callers map absence to their own not-found error.
func (ud *UserDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ud.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// FindByGenders returns profiles whose gender is in the given set, skipping
// every id in exclude. A nil gender set matches any gender. limit of 0
// means no cap.
func (ud *UserDirectory) FindByGenders(ctx context.Context, genders []string, exclude map[string]struct{}, limit int) ([]models.UserProfile, error) {
	genderSet := make(map[string]struct{}, len(genders))
	for _, g := range genders {
		genderSet[g] = struct{}{}
	}

	var profiles []models.UserProfile
	err := ud.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		id := utils.ExtractString(item, "userId")
		if id == "" {
			return false
		}
		if _, excluded := exclude[id]; excluded {
			return false
		}
		if len(genderSet) > 0 {
			if _, ok := genderSet[utils.ExtractString(item, "gender")]; !ok {
				return false
			}
		}
		return true
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate profiles: %w", err)
	}

	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

// AddProfile stores a new user profile.
func (ud *UserDirectory) AddProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if err := ud.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies string-valued attribute updates to a profile.
func (ud *UserDirectory) UpdateProfile(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return ud.GetProfile(ctx, userID)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionValues := make(map[string]types.AttributeValue, len(updates))
	expressionNames := make(map[string]string, len(updates))
	for k, v := range updates {
		updateExpression += " #" + k + " = :" + k + ","
		expressionValues[":"+k] = &types.AttributeValueMemberS{Value: v}
		expressionNames["#"+k] = k
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updated, err := ud.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(updated, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &profile, nil
}

// DeleteProfile removes a user profile.
func (ud *UserDirectory) DeleteProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ud.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}

// SetActivity records the online flag and last-active timestamp, fed by the
// socket layer on connect/disconnect so recency ranking stays fresh.
func (ud *UserDirectory) SetActivity(ctx context.Context, userID string, online bool) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET #isOnline = :online, #lastActive = :lastActive"
	expressionValues := map[string]types.AttributeValue{
		":online":     &types.AttributeValueMemberBOOL{Value: online},
		":lastActive": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expressionNames := map[string]string{
		"#isOnline":   "isOnline",
		"#lastActive": "lastActive",
	}

	_, err := ud.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames)
	return err
}
