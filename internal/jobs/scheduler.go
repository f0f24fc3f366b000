package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// Task types consumed by the worker.
const (
	TaskPointsReconcile    = "points_reconcile"
	TaskLeaderboardRefresh = "leaderboard_refresh"
)

// Scheduler enqueues background tasks onto the redis stream on a fixed
// timetable. The worker owns execution; the API process only publishes.
type Scheduler struct {
	cron   *cron.Cron
	queue  *redis.Client
	stream string
	log    zerolog.Logger
}

func NewScheduler(queue *redis.Client, stream string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:   c,
		queue:  queue,
		stream: stream,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.enqueuePointsReconcile); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 */5 * * * *", s.enqueueLeaderboardRefresh); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) enqueuePointsReconcile() {
	if err := s.enqueueTask(map[string]any{
		"type": TaskPointsReconcile,
	}); err != nil {
		s.log.Error().Err(err).Msg("enqueue points reconcile failed")
	}
}

func (s *Scheduler) enqueueLeaderboardRefresh() {
	if err := s.enqueueTask(map[string]any{
		"type": TaskLeaderboardRefresh,
	}); err != nil {
		s.log.Error().Err(err).Msg("enqueue leaderboard refresh failed")
	}
}

func (s *Scheduler) enqueueTask(payload map[string]any) error {
	if s.queue == nil {
		return nil
	}
	payload["task_id"] = ksuid.New().String()
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: s.stream,
		Values: payload,
	}).Result()
	return err
}
