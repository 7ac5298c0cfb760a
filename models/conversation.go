package models

// LastMessage is the listing summary of the most recent message.
type LastMessage struct {
	Text      string `dynamodbav:"text" json:"text"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Timestamp string `dynamodbav:"timestamp" json:"timestamp"`
}

// Conversation is the single message thread bound 1:1 to an active match.
// Like Match, it is keyed by the canonical pair ordering so (A,B) and (B,A)
// resolve to the same record.
type Conversation struct {
	PairKey        string         `dynamodbav:"pairKey" json:"-"` // Partition key, canonical "a|b"
	ConversationID string         `dynamodbav:"conversationId" json:"conversationId"`
	MatchID        string         `dynamodbav:"matchId" json:"matchId"`
	Participants   []string       `dynamodbav:"participants" json:"participants"`
	LastMessage    *LastMessage   `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	UnreadCount    map[string]int `dynamodbav:"unreadCount" json:"unreadCount"`
	CreatedAt      string         `dynamodbav:"createdAt" json:"createdAt"`
}

// IncludesUser reports whether userID is a participant.
func (c *Conversation) IncludesUser(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// UnreadFor returns the unread counter for userID, zero when absent.
func (c *Conversation) UnreadFor(userID string) int {
	return c.UnreadCount[userID]
}

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"

// ConversationIDIndex is the GSI keyed by conversationId.
const ConversationIDIndex = "conversationId-index"
