package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"amora_server/metrics"
	"amora_server/models"
	"amora_server/utils"

	"github.com/google/uuid"
)

// ConversationRepository is the storage surface for conversations.
// CreateIfAbsent enforces pair uniqueness at the storage layer; the unread
// mutations are atomic keyed updates, never read-modify-write.
type ConversationRepository interface {
	CreateIfAbsent(ctx context.Context, conversation models.Conversation) error
	GetByPair(ctx context.Context, userIDA, userIDB string) (*models.Conversation, error)
	GetByID(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	IncrementUnread(ctx context.Context, pairKey, userID string) error
	ResetUnread(ctx context.Context, pairKey, userID string) error
	SetLastMessage(ctx context.Context, pairKey string, last models.LastMessage) error
}

// MessageRepository is the storage surface for conversation messages.
type MessageRepository interface {
	Put(ctx context.Context, message models.Message) error
	Get(ctx context.Context, conversationID, messageID string) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID, before string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, receiverID string) error
	SoftDelete(ctx context.Context, conversationID, messageID string) error
}

// MatchGetter is the slice of the match store the chat path needs to gate
// messaging on an active match.
type MatchGetter interface {
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
}

// ChatService binds conversations to matches and runs the message flow.
type ChatService struct {
	Conversations ConversationRepository
	Messages      MessageRepository
	Matches       MatchGetter
	Profiles      ProfileDirectory
	Notify        Notifier
	Realtime      Publisher
}

// FindOrCreateConversation returns the single conversation for a pair,
// creating it lazily with zeroed unread counters. Same race discipline as
// match creation: a conflict means the other side created it, so re-fetch.
func (cs *ChatService) FindOrCreateConversation(ctx context.Context, userIDA, userIDB, matchID string) (*models.Conversation, error) {
	existing, err := cs.Conversations.GetByPair(ctx, userIDA, userIDB)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	lo, hi := utils.CanonicalPair(userIDA, userIDB)
	conversation := models.Conversation{
		PairKey:        utils.PairKey(userIDA, userIDB),
		ConversationID: uuid.NewString(),
		MatchID:        matchID,
		Participants:   []string{lo, hi},
		UnreadCount:    map[string]int{lo: 0, hi: 0},
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	err = cs.Conversations.CreateIfAbsent(ctx, conversation)
	if err == nil {
		return &conversation, nil
	}
	if err != ErrConversationConflict {
		return nil, err
	}

	log.Printf("ℹ️ Conversation creation conflict for %s and %s, fetching winner", userIDA, userIDB)
	existing, fetchErr := cs.Conversations.GetByPair(ctx, userIDA, userIDB)
	if fetchErr != nil {
		return nil, fetchErr
	}
	if existing == nil {
		return nil, fmt.Errorf("conversation conflict for pair %s: %w", conversation.PairKey, err)
	}
	return existing, nil
}

// SendMessageRequest is the payload for SendMessage.
type SendMessageRequest struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

func (r *SendMessageRequest) validate() error {
	if r.Type == "" {
		r.Type = models.MessageTypeText
	}
	switch r.Type {
	case models.MessageTypeText:
		if r.Text == "" {
			return ErrInvalidMessage
		}
	case models.MessageTypeImage, models.MessageTypeGif, models.MessageTypeAudio:
		if r.MediaURL == "" {
			return ErrInvalidMessage
		}
	default:
		return ErrInvalidMessage
	}
	return nil
}

// SendMessage delivers a message within an active match. The conversation
// is bound lazily on the first message. Push and realtime dispatch are
// best-effort and never fail the send.
func (cs *ChatService) SendMessage(ctx context.Context, matchID, senderID string, req SendMessageRequest) (*models.Message, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	match, err := cs.Matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if !match.IncludesUser(senderID) {
		return nil, ErrNotAParticipant
	}
	if !match.IsActive() {
		return nil, ErrMatchInactive
	}

	receiverID := match.OtherUser(senderID)
	conversation, err := cs.FindOrCreateConversation(ctx, senderID, receiverID, matchID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ConversationID: conversation.ConversationID,
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Type:           req.Type,
		Text:           req.Text,
		MediaURL:       req.MediaURL,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := cs.Messages.Put(ctx, message); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	summary := req.Text
	if req.Type != models.MessageTypeText {
		summary = "Sent a " + req.Type
	}
	if err := cs.Conversations.SetLastMessage(ctx, conversation.PairKey, models.LastMessage{
		Text:      summary,
		SenderID:  senderID,
		Timestamp: message.CreatedAt,
	}); err != nil {
		log.Printf("⚠️ Failed to update last message for %s: %v", conversation.ConversationID, err)
	}
	if err := cs.Conversations.IncrementUnread(ctx, conversation.PairKey, receiverID); err != nil {
		log.Printf("⚠️ Failed to bump unread for %s: %v", receiverID, err)
	}

	if cs.Notify != nil {
		if receiver, err := cs.Profiles.GetProfile(ctx, receiverID); err == nil && receiver != nil && receiver.PushToken != "" {
			payload := map[string]string{
				"conversationId": conversation.ConversationID,
				"fromUserId":     senderID,
				"preview":        summary,
			}
			if err := cs.Notify.Send(ctx, receiver.PushToken, models.NotificationKindMessage, payload); err != nil {
				log.Printf("⚠️ Message notification failed: %v", err)
			}
		}
	}
	if cs.Realtime != nil {
		cs.Realtime.Publish(receiverID, "new_message", map[string]interface{}{
			"conversationId": conversation.ConversationID,
			"message":        message,
		})
	}

	return &message, nil
}

// GetMessages returns a page of messages oldest-first and marks the
// caller's received messages read, resetting their unread counter.
func (cs *ChatService) GetMessages(ctx context.Context, conversationID, userID, before string, limit int) ([]models.Message, error) {
	conversation, err := cs.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if !conversation.IncludesUser(userID) {
		return nil, ErrNotAParticipant
	}

	messages, err := cs.Messages.ListByConversation(ctx, conversationID, before, limit)
	if err != nil {
		return nil, err
	}

	if err := cs.Messages.MarkRead(ctx, conversationID, userID); err != nil {
		log.Printf("⚠️ Failed to mark messages read in %s: %v", conversationID, err)
	}
	if err := cs.Conversations.ResetUnread(ctx, conversation.PairKey, userID); err != nil {
		log.Printf("⚠️ Failed to reset unread for %s: %v", userID, err)
	}

	// Newest-first from the store; present oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteMessage soft-deletes a message; only the sender may delete.
func (cs *ChatService) DeleteMessage(ctx context.Context, conversationID, messageID, userID string) error {
	message, err := cs.Messages.Get(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return ErrConversationNotFound
	}
	if message.SenderID != userID {
		return ErrNotAParticipant
	}
	return cs.Messages.SoftDelete(ctx, conversationID, messageID)
}

// ConversationSummary projects a conversation onto the other participant.
type ConversationSummary struct {
	ConversationID string              `json:"conversationId"`
	MatchID        string              `json:"matchId"`
	User           models.UserProfile  `json:"user"`
	Age            int                 `json:"age"`
	LastMessage    *models.LastMessage `json:"lastMessage,omitempty"`
	UnreadCount    int                 `json:"unreadCount"`
	CreatedAt      string              `json:"createdAt"`
}

// ListConversations returns the user's conversations, most recent activity
// first.
func (cs *ChatService) ListConversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	conversations, err := cs.Conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		otherID := conversation.OtherParticipant(userID)
		profile, err := cs.Profiles.GetProfile(ctx, otherID)
		if err != nil || profile == nil {
			log.Printf("⚠️ Skipping conversation %s: missing profile %s", conversation.ConversationID, otherID)
			continue
		}
		summaries = append(summaries, ConversationSummary{
			ConversationID: conversation.ConversationID,
			MatchID:        conversation.MatchID,
			User:           *profile,
			Age:            utils.AgeFromDOB(profile.DOB),
			LastMessage:    conversation.LastMessage,
			UnreadCount:    conversation.UnreadFor(userID),
			CreatedAt:      conversation.CreatedAt,
		})
	}
	return summaries, nil
}

// IncrementUnread bumps the unread counter for a participant.
func (cs *ChatService) IncrementUnread(ctx context.Context, conversationID, userID string) error {
	conversation, err := cs.participantConversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	return cs.Conversations.IncrementUnread(ctx, conversation.PairKey, userID)
}

// ResetUnread zeroes the unread counter for a participant.
func (cs *ChatService) ResetUnread(ctx context.Context, conversationID, userID string) error {
	conversation, err := cs.participantConversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	return cs.Conversations.ResetUnread(ctx, conversation.PairKey, userID)
}

// GetUnread reads the unread counter for a participant.
func (cs *ChatService) GetUnread(ctx context.Context, conversationID, userID string) (int, error) {
	conversation, err := cs.participantConversation(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return conversation.UnreadFor(userID), nil
}

func (cs *ChatService) participantConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	conversation, err := cs.Conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	if !conversation.IncludesUser(userID) {
		return nil, ErrNotAParticipant
	}
	return conversation, nil
}
