package service

import (
	"context"

	"github.com/rs/zerolog"

	"placementhub/internal/cache"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

type PostService struct {
	posts       *repository.PostRepository
	users       *repository.UserRepository
	leaderboard *cache.Leaderboard
	log         zerolog.Logger
}

func NewPostService(posts *repository.PostRepository, users *repository.UserRepository, leaderboard *cache.Leaderboard, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:       posts,
		users:       users,
		leaderboard: leaderboard,
		log:         logger.With().Str("service", "posts").Logger(),
	}
}

func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]models.Post, int, error) {
	return s.posts.List(ctx, filter)
}

func (s *PostService) Get(ctx context.Context, id, viewerID int64) (models.Post, error) {
	return s.posts.Get(ctx, id, viewerID)
}

// Create stores the post and awards the author's contribution points.
func (s *PostService) Create(ctx context.Context, authorID int64, post models.NewPost) (models.Post, error) {
	post.PostedBy = authorID
	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return models.Post{}, err
	}

	if err := s.users.AddPoints(ctx, nil, authorID, postCreatePoints); err != nil {
		s.log.Error().Err(err).Int64("user_id", authorID).Msg("award post points")
	} else if err := s.leaderboard.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("invalidate leaderboard cache")
	}
	return created, nil
}

func (s *PostService) Update(ctx context.Context, id, actorID int64, patch models.PostPatch) (models.Post, error) {
	existing, err := s.posts.Get(ctx, id, actorID)
	if err != nil {
		return models.Post{}, err
	}
	if existing.PostedBy != actorID {
		return models.Post{}, ErrForbidden
	}
	return s.posts.Patch(ctx, id, actorID, patch)
}

func (s *PostService) Delete(ctx context.Context, id, actorID int64) error {
	existing, err := s.posts.Get(ctx, id, actorID)
	if err != nil {
		return err
	}
	if existing.PostedBy != actorID {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}
