package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SwipeLedger is the append-only record of swipe decisions. At most one
// swipe exists per ordered (actor, target) pair; a second attempt is
// rejected, never overwritten. Records are immutable and permanent.
type SwipeLedger struct {
	Dynamo *DynamoService
}

// Record persists a new swipe. Returns ErrAlreadySwiped when the ordered
// pair already has a decision.
func (sl *SwipeLedger) Record(ctx context.Context, swipe models.Swipe) error {
	if swipe.SwipedAt == "" {
		swipe.SwipedAt = time.Now().UTC().Format(time.RFC3339)
	}

	err := sl.Dynamo.PutItemIfAbsent(ctx, models.SwipesTable, "actorId", swipe)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrAlreadySwiped
		}
		return fmt.Errorf("failed to record swipe: %w", err)
	}

	log.Printf("✅ Swipe recorded: %s -> %s (%s)", swipe.ActorID, swipe.TargetID, swipe.Action)
	return nil
}

// Get fetches the swipe for an ordered pair, (nil, nil) when absent.
func (sl *SwipeLedger) Get(ctx context.Context, actorID, targetID string) (*models.Swipe, error) {
	key := map[string]types.AttributeValue{
		"actorId":  &types.AttributeValueMemberS{Value: actorID},
		"targetId": &types.AttributeValueMemberS{Value: targetID},
	}

	item, err := sl.Dynamo.GetItem(ctx, models.SwipesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var swipe models.Swipe
	if err := attributevalue.UnmarshalMap(item, &swipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipe: %w", err)
	}
	return &swipe, nil
}

// HasReciprocalLike reports whether targetID has already liked or
// superliked actorID. This is the sole predicate for match detection; the
// actor's own swipe is recorded separately.
func (sl *SwipeLedger) HasReciprocalLike(ctx context.Context, actorID, targetID string) (bool, error) {
	reciprocal, err := sl.Get(ctx, targetID, actorID)
	if err != nil {
		return false, err
	}
	if reciprocal == nil {
		return false, nil
	}
	return reciprocal.Action == models.SwipeActionLike || reciprocal.Action == models.SwipeActionSuperlike, nil
}

// HistoryFor returns all swipes by an actor, newest first, optionally
// filtered by action. limit of 0 means no cap.
func (sl *SwipeLedger) HistoryFor(ctx context.Context, actorID, actionFilter string, limit int) ([]models.Swipe, error) {
	keyCondition := "actorId = :actor"
	expressionValues := map[string]types.AttributeValue{
		":actor": &types.AttributeValueMemberS{Value: actorID},
	}

	items, err := sl.Dynamo.QueryItems(ctx, models.SwipesTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch swipe history: %w", err)
	}

	var swipes []models.Swipe
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}

	if actionFilter != "" {
		filtered := swipes[:0]
		for _, s := range swipes {
			if s.Action == actionFilter {
				filtered = append(filtered, s)
			}
		}
		swipes = filtered
	}

	sort.SliceStable(swipes, func(i, j int) bool {
		return swipes[i].SwipedAt > swipes[j].SwipedAt
	})

	if limit > 0 && len(swipes) > limit {
		swipes = swipes[:limit]
	}
	return swipes, nil
}

// SwipedTargets returns the set of ids the actor has already decided on,
// used by the selector's exclusion filter.
func (sl *SwipeLedger) SwipedTargets(ctx context.Context, actorID string) (map[string]struct{}, error) {
	swipes, err := sl.HistoryFor(ctx, actorID, "", 0)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(swipes))
	for _, s := range swipes {
		targets[s.TargetID] = struct{}{}
	}
	return targets, nil
}

// LikersOf returns like/superlike swipes aimed at targetID, newest first,
// via the targetId GSI.
func (sl *SwipeLedger) LikersOf(ctx context.Context, targetID string) ([]models.Swipe, error) {
	keyCondition := "targetId = :target"
	expressionValues := map[string]types.AttributeValue{
		":target": &types.AttributeValueMemberS{Value: targetID},
	}

	items, err := sl.Dynamo.QueryItemsWithIndex(ctx, models.SwipesTable, models.TargetIDIndex, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch likers: %w", err)
	}

	var swipes []models.Swipe
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}

	likes := swipes[:0]
	for _, s := range swipes {
		if s.Action == models.SwipeActionLike || s.Action == models.SwipeActionSuperlike {
			likes = append(likes, s)
		}
	}

	sort.SliceStable(likes, func(i, j int) bool {
		return likes[i].SwipedAt > likes[j].SwipedAt
	})
	return likes, nil
}
