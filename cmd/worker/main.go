package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"placementhub/internal/cache"
	"placementhub/internal/config"
	"placementhub/internal/database"
	"placementhub/internal/log"
	"placementhub/internal/queue"
	"placementhub/internal/repository"
	"placementhub/internal/service"
	"placementhub/internal/tasks"
)

const claimInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(dbPool)
	leaderboard := service.NewLeaderboardService(userRepo, cache.NewLeaderboard(redisClient, 0), logger)
	processor := tasks.NewProcessor(userRepo, leaderboard, logger)

	consumer := queue.NewConsumer(
		redisClient,
		cfg.Redis.Stream,
		cfg.Redis.Group,
		cfg.Redis.Consumer,
		claimInterval,
		logger,
		processor,
	)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("consumer group setup failed")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
