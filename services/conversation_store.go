package services

import (
	"context"
	"fmt"
	"sort"

	"amora_server/models"
	"amora_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConversationStore persists conversations keyed by the canonical pair
// ordering, one record per participant pair. Unread counters are mutated
// with atomic update expressions so concurrent increments never lose
// updates.
type ConversationStore struct {
	Dynamo *DynamoService
}

// CreateIfAbsent inserts a conversation only when the pair has none.
// Returns ErrConversationConflict when a concurrent writer won the race.
func (cs *ConversationStore) CreateIfAbsent(ctx context.Context, conversation models.Conversation) error {
	err := cs.Dynamo.PutItemIfAbsent(ctx, models.ConversationsTable, "pairKey", conversation)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrConversationConflict
		}
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// GetByPair fetches the conversation for two users in either argument
// order, (nil, nil) when none exists.
func (cs *ConversationStore) GetByPair(ctx context.Context, userIDA, userIDB string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: utils.PairKey(userIDA, userIDB)},
	}

	item, err := cs.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

// GetByID fetches a conversation by its id through the conversationId GSI.
func (cs *ConversationStore) GetByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := cs.Dynamo.QueryItemsWithIndex(ctx, models.ConversationsTable, models.ConversationIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(items[0], &conversation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

// ListForUser returns every conversation the user participates in, most
// recent message first.
func (cs *ConversationStore) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := cs.Dynamo.ScanWithFilter(ctx, models.ConversationsTable, func(item map[string]types.AttributeValue) bool {
		for _, p := range utils.ExtractStringList(item, "participants") {
			if p == userID {
				return true
			}
		}
		return false
	}, &conversations)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return lastMessageTime(&conversations[i]) > lastMessageTime(&conversations[j])
	})
	return conversations, nil
}

func lastMessageTime(c *models.Conversation) string {
	if c.LastMessage == nil {
		return c.CreatedAt
	}
	return c.LastMessage.Timestamp
}

// IncrementUnread bumps the unread counter for one participant with an
// atomic ADD, so a concurrent read-reset cannot swallow the increment.
func (cs *ConversationStore) IncrementUnread(ctx context.Context, pairKey, userID string) error {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}

	updateExpression := "ADD #unread.#uid :one"
	expressionValues := map[string]types.AttributeValue{
		":one": &types.AttributeValueMemberN{Value: "1"},
	}
	expressionNames := map[string]string{
		"#unread": "unreadCount",
		"#uid":    userID,
	}

	_, err := cs.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

// ResetUnread zeroes the unread counter for one participant.
func (cs *ConversationStore) ResetUnread(ctx context.Context, pairKey, userID string) error {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}

	updateExpression := "SET #unread.#uid = :zero"
	expressionValues := map[string]types.AttributeValue{
		":zero": &types.AttributeValueMemberN{Value: "0"},
	}
	expressionNames := map[string]string{
		"#unread": "unreadCount",
		"#uid":    userID,
	}

	_, err := cs.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

// SetLastMessage stores the listing summary of the latest message.
func (cs *ConversationStore) SetLastMessage(ctx context.Context, pairKey string, last models.LastMessage) error {
	marshaled, err := attributevalue.MarshalMap(last)
	if err != nil {
		return fmt.Errorf("failed to marshal last message: %w", err)
	}

	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}

	updateExpression := "SET #lastMessage = :lm"
	expressionValues := map[string]types.AttributeValue{
		":lm": &types.AttributeValueMemberM{Value: marshaled},
	}
	expressionNames := map[string]string{
		"#lastMessage": "lastMessage",
	}

	_, err = cs.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}
