package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"amora_server/models"
	"amora_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchStore persists match records keyed by the canonical pair ordering,
// so the storage layer itself rules out duplicate matches for a pair.
type MatchStore struct {
	Dynamo *DynamoService
}

// CreateIfAbsent inserts a match only when no record exists for its pair.
// Returns ErrMatchConflict when a concurrent writer got there first; the
// caller resolves that by re-fetching the winner.
func (ms *MatchStore) CreateIfAbsent(ctx context.Context, match models.Match) error {
	err := ms.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, "pairKey", match)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrMatchConflict
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// GetByPair fetches the match for two users in either argument order,
// (nil, nil) when the pair never matched.
func (ms *MatchStore) GetByPair(ctx context.Context, userIDA, userIDB string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: utils.PairKey(userIDA, userIDB)},
	}

	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// GetByID fetches a match by its id through the matchId GSI.
func (ms *MatchStore) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	keyCondition := "matchId = :matchId"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(items[0], &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// ListActiveForUser returns the user's active matches, newest first.
func (ms *MatchStore) ListActiveForUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := ms.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		if utils.ExtractString(item, "status") != models.MatchStatusActive {
			return false
		}
		return utils.ExtractString(item, "userA") == userID || utils.ExtractString(item, "userB") == userID
	}, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchedAt > matches[j].MatchedAt
	})
	return matches, nil
}

// SetUnmatched marks a match unmatched. The transition is terminal; there
// is no path back to active for the same pair.
func (ms *MatchStore) SetUnmatched(ctx context.Context, pairKey, byUserID string) error {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}

	updateExpression := "SET #status = :status, #unmatchedBy = :by, #unmatchedAt = :at"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: models.MatchStatusUnmatched},
		":by":     &types.AttributeValueMemberS{Value: byUserID},
		":at":     &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expressionNames := map[string]string{
		"#status":      "status",
		"#unmatchedBy": "unmatchedBy",
		"#unmatchedAt": "unmatchedAt",
	}

	_, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression, key, expressionValues, expressionNames)
	return err
}
