package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"placementhub/internal/models"
)

const leaderboardKey = "hub:leaderboard"

// Leaderboard caches the top-contributor list. The database stays the source
// of truth; a cache miss or decode failure just falls through to it.
type Leaderboard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboard(client *redis.Client, ttl time.Duration) *Leaderboard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Leaderboard{client: client, ttl: ttl}
}

// Get returns the cached list, or ok=false on miss or any cache error.
func (l *Leaderboard) Get(ctx context.Context) ([]models.UserProfile, bool) {
	if l.client == nil {
		return nil, false
	}
	raw, err := l.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, false
	}
	var users []models.UserProfile
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false
	}
	return users, true
}

func (l *Leaderboard) Set(ctx context.Context, users []models.UserProfile) error {
	if l.client == nil {
		return nil
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return l.client.Set(ctx, leaderboardKey, raw, l.ttl).Err()
}

// Invalidate drops the cached list after a points mutation.
func (l *Leaderboard) Invalidate(ctx context.Context) error {
	if l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, leaderboardKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
