package service

import (
	"context"

	"github.com/rs/zerolog"

	"placementhub/internal/cache"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

type ExperienceService struct {
	experiences *repository.ExperienceRepository
	users       *repository.UserRepository
	leaderboard *cache.Leaderboard
	log         zerolog.Logger
}

func NewExperienceService(experiences *repository.ExperienceRepository, users *repository.UserRepository, leaderboard *cache.Leaderboard, logger zerolog.Logger) *ExperienceService {
	return &ExperienceService{
		experiences: experiences,
		users:       users,
		leaderboard: leaderboard,
		log:         logger.With().Str("service", "experiences").Logger(),
	}
}

func (s *ExperienceService) List(ctx context.Context, filter repository.ExperienceFilter) ([]models.InterviewExperience, int, error) {
	return s.experiences.List(ctx, filter)
}

func (s *ExperienceService) Get(ctx context.Context, id, viewerID int64) (models.InterviewExperience, error) {
	return s.experiences.Get(ctx, id, viewerID)
}

// Create stores the experience and awards the author's contribution points.
func (s *ExperienceService) Create(ctx context.Context, authorID int64, exp models.NewInterviewExperience) (models.InterviewExperience, error) {
	created, err := s.experiences.Create(ctx, authorID, exp)
	if err != nil {
		return models.InterviewExperience{}, err
	}

	if err := s.users.AddPoints(ctx, nil, authorID, experienceCreatePoints); err != nil {
		s.log.Error().Err(err).Int64("user_id", authorID).Msg("award experience points")
	} else if err := s.leaderboard.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("invalidate leaderboard cache")
	}
	return created, nil
}

func (s *ExperienceService) Update(ctx context.Context, id, actorID int64, patch models.InterviewExperiencePatch) (models.InterviewExperience, error) {
	existing, err := s.experiences.Get(ctx, id, actorID)
	if err != nil {
		return models.InterviewExperience{}, err
	}
	if existing.PostedBy != actorID {
		return models.InterviewExperience{}, ErrForbidden
	}
	return s.experiences.Patch(ctx, id, actorID, patch)
}

func (s *ExperienceService) Delete(ctx context.Context, id, actorID int64) error {
	existing, err := s.experiences.Get(ctx, id, actorID)
	if err != nil {
		return err
	}
	if existing.PostedBy != actorID {
		return ErrForbidden
	}
	return s.experiences.Delete(ctx, id)
}
