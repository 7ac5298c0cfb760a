package models

// Match is the mutual-like relationship between two users. The pair key is
// the canonical ordering of the two user ids, so at most one record can
// exist per pair regardless of which side created it.
type Match struct {
	PairKey     string `dynamodbav:"pairKey" json:"-"` // Partition key, canonical "a|b"
	MatchID     string `dynamodbav:"matchId" json:"matchId"`
	UserA       string `dynamodbav:"userA" json:"userA"` // Lexicographically smaller id
	UserB       string `dynamodbav:"userB" json:"userB"`
	Status      string `dynamodbav:"status" json:"status"` // active, unmatched
	MatchedAt   string `dynamodbav:"matchedAt" json:"matchedAt"`
	UnmatchedBy string `dynamodbav:"unmatchedBy,omitempty" json:"unmatchedBy,omitempty"`
	UnmatchedAt string `dynamodbav:"unmatchedAt,omitempty" json:"unmatchedAt,omitempty"`
}

// IncludesUser reports whether userID is one of the two matched users.
func (m *Match) IncludesUser(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// OtherUser returns the id of the participant that is not userID.
func (m *Match) OtherUser(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

// IsActive reports whether the match has not been unmatched.
func (m *Match) IsActive() bool {
	return m.Status == MatchStatusActive
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// MatchIDIndex is the GSI keyed by matchId for lookups by match id.
const MatchIDIndex = "matchId-index"
