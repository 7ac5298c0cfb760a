package models

// Message belongs to a conversation. Messages are soft-deleted, never
// physically removed.
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"` // Partition key
	MessageID      string `dynamodbav:"messageId" json:"messageId"`           // Sort key
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID     string `dynamodbav:"receiverId" json:"receiverId"`
	Type           string `dynamodbav:"type" json:"type"` // text, image, gif, audio
	Text           string `dynamodbav:"text,omitempty" json:"text,omitempty"`
	MediaURL       string `dynamodbav:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	IsRead         bool   `dynamodbav:"isRead" json:"isRead"`
	ReadAt         string `dynamodbav:"readAt,omitempty" json:"readAt,omitempty"`
	IsDeleted      bool   `dynamodbav:"isDeleted" json:"isDeleted"`
	DeletedAt      string `dynamodbav:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// MessagesTable is the DynamoDB table name for messages
const MessagesTable = "Messages"
