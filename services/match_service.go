package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"amora_server/models"
	"amora_server/utils"

	"github.com/google/uuid"
)

// MatchRepository is the storage surface for match records. CreateIfAbsent
// must enforce pair uniqueness at the storage layer and report a loss of
// the creation race as ErrMatchConflict.
type MatchRepository interface {
	CreateIfAbsent(ctx context.Context, match models.Match) error
	GetByPair(ctx context.Context, userIDA, userIDB string) (*models.Match, error)
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
	ListActiveForUser(ctx context.Context, userID string) ([]models.Match, error)
	SetUnmatched(ctx context.Context, pairKey, byUserID string) error
}

// PresenceChecker reports whether a user currently has a live connection.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID string) bool
}

// MatchService owns the lifecycle of a pair's match record: idempotent
// creation on mutual like, listing, and terminal unmatch.
type MatchService struct {
	Matches  MatchRepository
	Profiles ProfileDirectory
	Presence PresenceChecker
}

// CreateMatch idempotently creates the match for a pair. Argument order is
// irrelevant. Two concurrent calls, one from each side's swipe path, both
// resolve to the single stored record: the loser of the storage race
// re-fetches the winner instead of failing.
func (ms *MatchService) CreateMatch(ctx context.Context, userIDA, userIDB string) (*models.Match, error) {
	if userIDA == userIDB {
		return nil, ErrSelfTarget
	}

	existing, err := ms.Matches.GetByPair(ctx, userIDA, userIDB)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	lo, hi := utils.CanonicalPair(userIDA, userIDB)
	match := models.Match{
		PairKey:   utils.PairKey(userIDA, userIDB),
		MatchID:   uuid.NewString(),
		UserA:     lo,
		UserB:     hi,
		Status:    models.MatchStatusActive,
		MatchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	err = ms.Matches.CreateIfAbsent(ctx, match)
	if err == nil {
		return &match, nil
	}
	if err != ErrMatchConflict {
		return nil, err
	}

	// Lost the race: the other side's swipe path created the record.
	log.Printf("ℹ️ Match creation conflict for %s and %s, fetching winner", userIDA, userIDB)
	existing, fetchErr := ms.Matches.GetByPair(ctx, userIDA, userIDB)
	if fetchErr != nil {
		return nil, fetchErr
	}
	if existing == nil {
		return nil, fmt.Errorf("match conflict for pair %s: %w", match.PairKey, err)
	}
	return existing, nil
}

// MatchSummary projects a match onto the other participant for listings.
type MatchSummary struct {
	MatchID   string             `json:"matchId"`
	MatchedAt string             `json:"matchedAt"`
	Status    string             `json:"status"`
	User      models.UserProfile `json:"user"`
	Age       int                `json:"age"`
}

// GetMatches lists the user's active matches, newest first, with the other
// participant's profile attached.
func (ms *MatchService) GetMatches(ctx context.Context, userID string) ([]MatchSummary, error) {
	matches, err := ms.Matches.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for _, match := range matches {
		summary, err := ms.summarize(ctx, &match, userID)
		if err != nil {
			log.Printf("⚠️ Skipping match %s: %v", match.MatchID, err)
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// GetMatchByID fetches one match with a participant check.
func (ms *MatchService) GetMatchByID(ctx context.Context, matchID, userID string) (*MatchSummary, error) {
	match, err := ms.Matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if !match.IncludesUser(userID) {
		return nil, ErrNotAParticipant
	}
	return ms.summarize(ctx, match, userID)
}

// CheckMatchWith reports whether the user has an active match with another
// user, returning it when present.
func (ms *MatchService) CheckMatchWith(ctx context.Context, userID, otherUserID string) (*models.Match, error) {
	match, err := ms.Matches.GetByPair(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if match == nil || !match.IsActive() {
		return nil, nil
	}
	return match, nil
}

// Unmatch marks the match unmatched. Terminal: the pair cannot re-match,
// since both swipe records are permanent and unique.
func (ms *MatchService) Unmatch(ctx context.Context, matchID, userID string) error {
	match, err := ms.Matches.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrMatchNotFound
	}
	if !match.IncludesUser(userID) {
		return ErrNotAParticipant
	}
	if !match.IsActive() {
		return ErrMatchInactive
	}

	if err := ms.Matches.SetUnmatched(ctx, match.PairKey, userID); err != nil {
		return err
	}
	log.Printf("Match %s unmatched by %s", matchID, userID)
	return nil
}

func (ms *MatchService) summarize(ctx context.Context, match *models.Match, userID string) (*MatchSummary, error) {
	otherID := match.OtherUser(userID)
	profile, err := ms.Profiles.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile missing for matched user %s", otherID)
	}

	if ms.Presence != nil {
		profile.IsOnline = ms.Presence.IsOnline(ctx, otherID)
	}

	return &MatchSummary{
		MatchID:   match.MatchID,
		MatchedAt: match.MatchedAt,
		Status:    match.Status,
		User:      *profile,
		Age:       utils.AgeFromDOB(profile.DOB),
	}, nil
}
