package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// presenceTTL bounds how stale an online flag can get if a disconnect is
// never observed.
const presenceTTL = 5 * time.Minute

// PresenceService tracks live connections in Redis and mirrors activity
// changes into the profile store. It implements PresenceChecker.
type PresenceService struct {
	Redis    *redis.Client
	Profiles *UserDirectory
}

func presenceKey(userID string) string {
	return "presence:" + userID
}

// SetOnline flags a user online with a TTL refreshed on every heartbeat.
func (ps *PresenceService) SetOnline(ctx context.Context, userID string) {
	if err := ps.Redis.Set(ctx, presenceKey(userID), "1", presenceTTL).Err(); err != nil {
		log.Printf("⚠️ Failed to set presence for %s: %v", userID, err)
		return
	}
	if ps.Profiles != nil {
		if err := ps.Profiles.SetActivity(ctx, userID, true); err != nil {
			log.Printf("⚠️ Failed to record activity for %s: %v", userID, err)
		}
	}
}

// SetOffline clears the online flag and stamps last activity.
func (ps *PresenceService) SetOffline(ctx context.Context, userID string) {
	if err := ps.Redis.Del(ctx, presenceKey(userID)).Err(); err != nil {
		log.Printf("⚠️ Failed to clear presence for %s: %v", userID, err)
	}
	if ps.Profiles != nil {
		if err := ps.Profiles.SetActivity(ctx, userID, false); err != nil {
			log.Printf("⚠️ Failed to record activity for %s: %v", userID, err)
		}
	}
}

// IsOnline reports whether the user has a live presence key. Errors read as
// offline.
func (ps *PresenceService) IsOnline(ctx context.Context, userID string) bool {
	n, err := ps.Redis.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		log.Printf("⚠️ Presence lookup failed for %s: %v", userID, err)
		return false
	}
	return n > 0
}

// InitializeRedisClient connects to Redis using the given address, empty
// password and database 0.
func InitializeRedisClient(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis not reachable at %s: %v", addr, err)
	} else {
		log.Printf("✅ Connected to Redis at %s", addr)
	}
	return client
}
