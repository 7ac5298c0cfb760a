package models

// Genders
const (
	GenderMale      = "male"
	GenderFemale    = "female"
	GenderNonbinary = "nonbinary"
)

// Swipe actions
const (
	SwipeActionLike      = "like"
	SwipeActionPass      = "pass"
	SwipeActionSuperlike = "superlike"
)

// Match statuses
const (
	MatchStatusActive    = "active"
	MatchStatusUnmatched = "unmatched"
)

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeGif   = "gif"
	MessageTypeAudio = "audio"
)

// Notification kinds pushed to the best-effort side channel.
const (
	NotificationKindLike      = "like"
	NotificationKindSuperlike = "superlike"
	NotificationKindMatch     = "match"
	NotificationKindMessage   = "message"
)
