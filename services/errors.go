package services

import "errors"

// Validation and lookup failures surfaced to callers.
var (
	ErrActorNotFound  = errors.New("actor not found")
	ErrTargetNotFound = errors.New("target user not found")
	ErrSelfTarget     = errors.New("cannot swipe on yourself")
	ErrAlreadySwiped  = errors.New("already swiped on this user")
	ErrInvalidAction  = errors.New("action must be: like, pass, or superlike")

	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchInactive        = errors.New("match is not active")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotAParticipant      = errors.New("user is not a participant")
	ErrInvalidMessage       = errors.New("invalid message payload")
)

// Conflict signals from idempotent creation races. They are resolved
// internally by re-fetching the winner's record and never reach a caller
// while a valid record is obtainable.
var (
	ErrMatchConflict        = errors.New("match already exists for pair")
	ErrConversationConflict = errors.New("conversation already exists for pair")
)
