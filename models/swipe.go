package models

// Swipe is a single user's one-directional decision about another user.
// Records are immutable and never deleted; the (actorId, targetId) pair is
// unique, enforced with a conditional write.
type Swipe struct {
	ActorID  string `dynamodbav:"actorId" json:"actorId"`   // Partition key
	TargetID string `dynamodbav:"targetId" json:"targetId"` // Sort key
	Action   string `dynamodbav:"action" json:"action"`     // like, pass, superlike
	SwipedAt string `dynamodbav:"swipedAt" json:"swipedAt"` // RFC3339
}

// SwipesTable is the DynamoDB table name for swipe records
const SwipesTable = "Swipes"

// TargetIDIndex is the GSI keyed by targetId, used for reciprocal-like
// lookups and the "who liked me" listing.
const TargetIDIndex = "targetId-index"
