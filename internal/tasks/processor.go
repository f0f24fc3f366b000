package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"placementhub/internal/jobs"
	"placementhub/internal/repository"
	"placementhub/internal/service"
)

// Processor executes the scheduled maintenance tasks: rebuilding contribution
// points from the vote tables and re-warming the leaderboard cache.
type Processor struct {
	users       *repository.UserRepository
	leaderboard *service.LeaderboardService
	logger      zerolog.Logger
}

type TaskPayload struct {
	Type   string `json:"type"`
	TaskID string `json:"task_id"`
}

func NewProcessor(users *repository.UserRepository, leaderboard *service.LeaderboardService, logger zerolog.Logger) *Processor {
	return &Processor{
		users:       users,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case jobs.TaskPointsReconcile:
		return p.handlePointsReconcile(ctx, payload)
	case jobs.TaskLeaderboardRefresh:
		return p.handleLeaderboardRefresh(ctx, payload)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

func (p *Processor) handlePointsReconcile(ctx context.Context, payload TaskPayload) error {
	repaired, err := p.users.RecomputePoints(ctx)
	if err != nil {
		return fmt.Errorf("recompute points: %w", err)
	}
	p.logger.Info().
		Str("task_id", payload.TaskID).
		Int64("repaired", repaired).
		Msg("points reconciled")

	if repaired > 0 {
		return p.leaderboard.Refresh(ctx)
	}
	return nil
}

func (p *Processor) handleLeaderboardRefresh(ctx context.Context, payload TaskPayload) error {
	if err := p.leaderboard.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh leaderboard: %w", err)
	}
	p.logger.Debug().Str("task_id", payload.TaskID).Msg("leaderboard refreshed")
	return nil
}
