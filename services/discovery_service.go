package services

import (
	"context"
	"log"
	"sort"
	"time"

	"amora_server/metrics"
	"amora_server/models"
	"amora_server/utils"
)

// ProfileDirectory is the read surface of the user store the selector
// needs.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	FindByGenders(ctx context.Context, genders []string, exclude map[string]struct{}, limit int) ([]models.UserProfile, error)
}

// SwipeStore is the ledger surface used by discovery.
type SwipeStore interface {
	Record(ctx context.Context, swipe models.Swipe) error
	HasReciprocalLike(ctx context.Context, actorID, targetID string) (bool, error)
	SwipedTargets(ctx context.Context, actorID string) (map[string]struct{}, error)
	HistoryFor(ctx context.Context, actorID, actionFilter string, limit int) ([]models.Swipe, error)
	LikersOf(ctx context.Context, targetID string) ([]models.Swipe, error)
}

// MatchMaker forms a match once both directions of a like exist.
type MatchMaker interface {
	CreateMatch(ctx context.Context, userIDA, userIDB string) (*models.Match, error)
}

// Notifier is the best-effort push side channel. Send failures are logged
// and swallowed; they never abort the operation that triggered them.
type Notifier interface {
	Send(ctx context.Context, pushToken, kind string, payload map[string]string) error
}

// Publisher announces events to a connected client. Absence of a connected
// client is not an error.
type Publisher interface {
	Publish(userID, event string, payload interface{})
}

// tier is one relaxation level of the candidate search. Tiers are evaluated
// in order; a tier is always drained fully before the next one is
// consulted, and later tiers only run while the feed is under-filled.
type tier struct {
	genders               []string
	maxDistanceKm         int // 0 means any distance
	requireSharedInterest bool
}

// tiersFor returns the relaxation ladder for an actor's gender. Binary
// actors prefer the opposite binary gender close by with common ground,
// then relax distance, then interest, then widen to nonbinary users and
// finally the same binary gender. Nonbinary actors prefer other nonbinary
// users first, then nearby binary users, then any binary user.
func tiersFor(gender string) []tier {
	if gender == models.GenderNonbinary {
		return []tier{
			{genders: []string{models.GenderNonbinary}},
			{genders: []string{models.GenderMale, models.GenderFemale}, maxDistanceKm: 100},
			{genders: []string{models.GenderMale, models.GenderFemale}},
		}
	}

	opposite := models.GenderFemale
	if gender == models.GenderFemale {
		opposite = models.GenderMale
	}
	return []tier{
		{genders: []string{opposite}, maxDistanceKm: 50, requireSharedInterest: true},
		{genders: []string{opposite}, maxDistanceKm: 100},
		{genders: []string{opposite}},
		{genders: []string{models.GenderNonbinary}},
		{genders: []string{gender}},
	}
}

// RankedProfile is a candidate tagged with its best tier and in-tier score
// inputs.
type RankedProfile struct {
	models.UserProfile
	Age             int `json:"age"`
	Tier            int `json:"tier"`
	DistanceKm      int `json:"distanceKm,omitempty"`
	SharedInterests int `json:"sharedInterests"`
}

// SwipeResult reports what a recorded swipe led to.
type SwipeResult struct {
	Swipe   models.Swipe  `json:"swipe"`
	IsMatch bool          `json:"isMatch"`
	Match   *models.Match `json:"match,omitempty"`
}

// DiscoveryService produces the swipe feed and records swipe decisions.
type DiscoveryService struct {
	Profiles ProfileDirectory
	Swipes   SwipeStore
	Matches  MatchMaker
	Notify   Notifier
	Realtime Publisher
}

const defaultFeedLimit = 10

// SelectCandidates returns up to limit candidates for the actor, ordered by
// tier, then distance, shared interests and recency. The actor and every
// already-swiped target are excluded; a candidate qualifying for several
// tiers keeps its best one. An empty feed is a valid result.
func (ds *DiscoveryService) SelectCandidates(ctx context.Context, actorID string, limit int) ([]RankedProfile, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	metrics.FeedRequests.Inc()

	actor, err := ds.Profiles.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}

	exclude, err := ds.Swipes.SwipedTargets(ctx, actorID)
	if err != nil {
		return nil, err
	}
	exclude[actorID] = struct{}{}

	best := make(map[string]RankedProfile)
	for tierIdx, t := range tiersFor(actor.Gender) {
		candidates, err := ds.Profiles.FindByGenders(ctx, t.genders, exclude, 0)
		if err != nil {
			return nil, err
		}

		for _, candidate := range candidates {
			if _, seen := best[candidate.UserID]; seen {
				// Earlier tiers are better; keep the first tag.
				continue
			}

			distance := utils.CalculateDistance(actor.Longitude, actor.Latitude, candidate.Longitude, candidate.Latitude)
			if t.maxDistanceKm > 0 && distance > t.maxDistanceKm {
				continue
			}
			shared := utils.SharedInterests(actor.Interests, candidate.Interests)
			if t.requireSharedInterest && shared == 0 {
				continue
			}

			best[candidate.UserID] = RankedProfile{
				UserProfile:     candidate,
				Age:             utils.AgeFromDOB(candidate.DOB),
				Tier:            tierIdx,
				DistanceKm:      distance,
				SharedInterests: shared,
			}
		}

		// The tier is drained completely before this check, so a full feed
		// never mixes in a later tier.
		if len(best) >= limit {
			break
		}
	}

	ranked := make([]RankedProfile, 0, len(best))
	for _, candidate := range best {
		ranked = append(ranked, candidate)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.SharedInterests != b.SharedInterests {
			return a.SharedInterests > b.SharedInterests
		}
		if a.LastActive != b.LastActive {
			return a.LastActive > b.LastActive
		}
		return a.UserID < b.UserID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// RecordSwipe validates and persists a swipe, then checks for a reciprocal
// like and forms the match synchronously when one exists. A failure past
// the ledger write never rolls the swipe back.
func (ds *DiscoveryService) RecordSwipe(ctx context.Context, actorID, targetID, action string) (*SwipeResult, error) {
	switch action {
	case models.SwipeActionLike, models.SwipeActionPass, models.SwipeActionSuperlike:
	default:
		return nil, ErrInvalidAction
	}
	if actorID == targetID {
		return nil, ErrSelfTarget
	}

	actor, err := ds.Profiles.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}
	target, err := ds.Profiles.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}

	swipe := models.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
		SwipedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := ds.Swipes.Record(ctx, swipe); err != nil {
		return nil, err
	}
	metrics.SwipesTotal.WithLabelValues(action).Inc()

	result := &SwipeResult{Swipe: swipe}
	if action == models.SwipeActionPass {
		return result, nil
	}

	ds.notify(ctx, target.PushToken, action, map[string]string{
		"fromUserId": actorID,
		"fromName":   actor.Name,
	})

	reciprocal, err := ds.Swipes.HasReciprocalLike(ctx, actorID, targetID)
	if err != nil {
		log.Printf("❌ Reciprocal-like check failed for %s and %s: %v", actorID, targetID, err)
		return result, nil
	}
	if !reciprocal {
		return result, nil
	}

	match, err := ds.Matches.CreateMatch(ctx, actorID, targetID)
	if err != nil {
		// The swipe stands; the other side's swipe path will retry the
		// idempotent creation.
		log.Printf("❌ Match creation failed for %s and %s: %v", actorID, targetID, err)
		return result, nil
	}

	result.IsMatch = true
	result.Match = match
	metrics.MatchesFormed.Inc()
	log.Printf("🎉 Match formed: %s and %s (%s)", actorID, targetID, match.MatchID)

	payload := map[string]string{"matchId": match.MatchID}
	ds.notify(ctx, actor.PushToken, models.NotificationKindMatch, payload)
	ds.notify(ctx, target.PushToken, models.NotificationKindMatch, payload)
	if ds.Realtime != nil {
		event := map[string]interface{}{"matchId": match.MatchID, "matchedAt": match.MatchedAt}
		ds.Realtime.Publish(actorID, "new_match", event)
		ds.Realtime.Publish(targetID, "new_match", event)
	}

	return result, nil
}

func (ds *DiscoveryService) notify(ctx context.Context, pushToken, kind string, payload map[string]string) {
	if ds.Notify == nil || pushToken == "" {
		return
	}
	if err := ds.Notify.Send(ctx, pushToken, kind, payload); err != nil {
		log.Printf("⚠️ Notification (%s) failed: %v", kind, err)
	}
}

// LikerProfile is a profile enriched with the swipe that liked the actor.
type LikerProfile struct {
	models.UserProfile
	Age     int    `json:"age"`
	Action  string `json:"action"`
	LikedAt string `json:"likedAt"`
}

// GetLikes lists the users who liked or superliked the actor, newest
// first.
func (ds *DiscoveryService) GetLikes(ctx context.Context, actorID string) ([]LikerProfile, error) {
	actor, err := ds.Profiles.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}

	likes, err := ds.Swipes.LikersOf(ctx, actorID)
	if err != nil {
		return nil, err
	}

	likers := make([]LikerProfile, 0, len(likes))
	for _, like := range likes {
		profile, err := ds.Profiles.GetProfile(ctx, like.ActorID)
		if err != nil || profile == nil {
			continue
		}
		likers = append(likers, LikerProfile{
			UserProfile: *profile,
			Age:         utils.AgeFromDOB(profile.DOB),
			Action:      like.Action,
			LikedAt:     like.SwipedAt,
		})
	}
	return likers, nil
}

const swipeHistoryLimit = 50

// SwipeHistory returns the actor's swipes, newest first, optionally
// filtered by action.
func (ds *DiscoveryService) SwipeHistory(ctx context.Context, actorID, actionFilter string) ([]models.Swipe, error) {
	if actionFilter != "" {
		switch actionFilter {
		case models.SwipeActionLike, models.SwipeActionPass, models.SwipeActionSuperlike:
		default:
			return nil, ErrInvalidAction
		}
	}
	return ds.Swipes.HistoryFor(ctx, actorID, actionFilter, swipeHistoryLimit)
}
