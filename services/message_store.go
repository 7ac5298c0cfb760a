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

// MessageStore persists conversation messages. Deletes are soft; the
// record always stays.
type MessageStore struct {
	Dynamo *DynamoService
}

// Put stores a new message.
func (ms *MessageStore) Put(ctx context.Context, message models.Message) error {
	if err := ms.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// Get fetches a single message, (nil, nil) when absent.
func (ms *MessageStore) Get(ctx context.Context, conversationID, messageID string) (*models.Message, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"messageId":      &types.AttributeValueMemberS{Value: messageID},
	}

	item, err := ms.Dynamo.GetItem(ctx, models.MessagesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var message models.Message
	if err := attributevalue.UnmarshalMap(item, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &message, nil
}

// ListByConversation returns non-deleted messages, newest first. before is
// an optional RFC3339 bound for pagination; limit of 0 means no cap.
func (ms *MessageStore) ListByConversation(ctx context.Context, conversationID, before string, limit int) ([]models.Message, error) {
	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := ms.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}

	filtered := messages[:0]
	for _, m := range messages {
		if m.IsDeleted {
			continue
		}
		if before != "" && m.CreatedAt >= before {
			continue
		}
		filtered = append(filtered, m)
	}
	messages = filtered

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// MarkRead flags every unread message delivered to receiverID as read.
func (ms *MessageStore) MarkRead(ctx context.Context, conversationID, receiverID string) error {
	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := ms.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 0)
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, item := range items {
		if utils.ExtractString(item, "receiverId") != receiverID {
			continue
		}
		if read, ok := item["isRead"].(*types.AttributeValueMemberBOOL); ok && read.Value {
			continue
		}

		key := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"messageId":      &types.AttributeValueMemberS{Value: utils.ExtractString(item, "messageId")},
		}
		updateExpression := "SET isRead = :read, readAt = :at"
		values := map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: true},
			":at":   &types.AttributeValueMemberS{Value: now},
		}
		if _, err := ms.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, values, nil); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete marks a message deleted without removing the record.
func (ms *MessageStore) SoftDelete(ctx context.Context, conversationID, messageID string) error {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"messageId":      &types.AttributeValueMemberS{Value: messageID},
	}

	updateExpression := "SET isDeleted = :deleted, deletedAt = :at"
	expressionValues := map[string]types.AttributeValue{
		":deleted": &types.AttributeValueMemberBOOL{Value: true},
		":at":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	_, err := ms.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, expressionValues, nil)
	return err
}
