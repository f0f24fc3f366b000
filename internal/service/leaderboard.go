package service

import (
	"context"

	"github.com/rs/zerolog"

	"placementhub/internal/cache"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

const leaderboardSize = 50

type LeaderboardService struct {
	users *repository.UserRepository
	cache *cache.Leaderboard
	log   zerolog.Logger
}

func NewLeaderboardService(users *repository.UserRepository, c *cache.Leaderboard, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		users: users,
		cache: c,
		log:   logger.With().Str("service", "leaderboard").Logger(),
	}
}

// Top returns the highest-scoring profiles, cache-aside against redis.
func (s *LeaderboardService) Top(ctx context.Context) ([]models.UserProfile, error) {
	if users, ok := s.cache.Get(ctx); ok {
		return users, nil
	}

	users, err := s.users.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, users); err != nil {
		s.log.Warn().Err(err).Msg("cache leaderboard")
	}
	return users, nil
}

// Refresh recomputes the cached list from the database. The worker calls this
// on a schedule so reads stay warm after invalidations.
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	users, err := s.users.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, users)
}
