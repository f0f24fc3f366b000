package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"placementhub/internal/cache"
	"placementhub/internal/models"
	"placementhub/internal/repository"
)

// ErrInvalidVote rejects vote values outside {1, -1, 0}.
var ErrInvalidVote = fmt.Errorf("vote must be 1, -1 or 0")

// postVoteTransition computes the tally and author-point deltas for moving a
// voter from oldVote to newVote on a post. Votes are worth one author point
// each way; the caller floors the author's balance at zero.
func postVoteTransition(oldVote, newVote int) (dUp, dDown, dAuthorPoints int) {
	dUp = b2i(newVote == models.VoteUp) - b2i(oldVote == models.VoteUp)
	dDown = b2i(newVote == models.VoteDown) - b2i(oldVote == models.VoteDown)
	return dUp, dDown, dUp - dDown
}

// experienceVoteTransition computes deltas for an experience upvote.
// Experience votes cannot be retracted, so repeat votes are a no-op.
func experienceVoteTransition(alreadyVoted bool) (dUp, dAuthorPoints int) {
	if alreadyVoted {
		return 0, 0
	}
	return 1, experienceUpvotePoints
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

type VoteService struct {
	pool        *pgxpool.Pool
	posts       *repository.PostRepository
	experiences *repository.ExperienceRepository
	users       *repository.UserRepository
	leaderboard *cache.Leaderboard
	log         zerolog.Logger
}

func NewVoteService(
	pool *pgxpool.Pool,
	posts *repository.PostRepository,
	experiences *repository.ExperienceRepository,
	users *repository.UserRepository,
	leaderboard *cache.Leaderboard,
	logger zerolog.Logger,
) *VoteService {
	return &VoteService{
		pool:        pool,
		posts:       posts,
		experiences: experiences,
		users:       users,
		leaderboard: leaderboard,
		log:         logger.With().Str("service", "votes").Logger(),
	}
}

// VotePost records, changes or removes a user's vote on a post and returns
// the recomputed tallies. The vote row, the cached counts and the author's
// points move in one transaction.
func (s *VoteService) VotePost(ctx context.Context, postID, voterID int64, vote int) (models.PostVoteResult, error) {
	if vote != models.VoteUp && vote != models.VoteDown && vote != models.VoteRemove {
		return models.PostVoteResult{}, ErrInvalidVote
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.PostVoteResult{}, fmt.Errorf("begin vote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	authorID, _, _, err := s.posts.GetForUpdate(ctx, tx, postID)
	if err != nil {
		return models.PostVoteResult{}, err
	}

	oldVote, err := s.posts.GetVote(ctx, tx, postID, voterID)
	if err != nil && !errors.Is(err, repository.ErrVoteNotFound) {
		return models.PostVoteResult{}, err
	}

	dUp, dDown, dPoints := postVoteTransition(oldVote, vote)

	var message string
	switch {
	case vote == models.VoteRemove && oldVote == 0:
		message = "no vote to remove"
	case vote == models.VoteRemove:
		if err := s.posts.DeleteVote(ctx, tx, postID, voterID); err != nil {
			return models.PostVoteResult{}, err
		}
		message = "vote removed"
	case vote == oldVote:
		message = "vote unchanged"
	default:
		if err := s.posts.UpsertVote(ctx, tx, postID, voterID, vote); err != nil {
			return models.PostVoteResult{}, err
		}
		message = "vote recorded"
	}

	upvotes, downvotes := 0, 0
	if upvotes, downvotes, err = s.posts.AdjustCounts(ctx, tx, postID, dUp, dDown); err != nil {
		return models.PostVoteResult{}, err
	}
	if dPoints != 0 {
		if err := s.users.AddPoints(ctx, tx, authorID, dPoints); err != nil {
			return models.PostVoteResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.PostVoteResult{}, fmt.Errorf("commit vote tx: %w", err)
	}

	if dPoints != 0 {
		if err := s.leaderboard.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("invalidate leaderboard cache")
		}
	}

	var userVote *int
	if vote != models.VoteRemove {
		v := vote
		userVote = &v
	}
	return models.PostVoteResult{
		Message:   message,
		Upvotes:   upvotes,
		Downvotes: downvotes,
		UserVote:  userVote,
		NetVotes:  upvotes - downvotes,
	}, nil
}

// VoteExperience records an upvote on an interview experience. Repeat votes
// are acknowledged without changing anything.
func (s *VoteService) VoteExperience(ctx context.Context, experienceID, voterID int64) (models.ExperienceVoteResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.ExperienceVoteResult{}, fmt.Errorf("begin vote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	authorID, upvotes, err := s.experiences.GetForUpdate(ctx, tx, experienceID)
	if err != nil {
		return models.ExperienceVoteResult{}, err
	}

	voted, err := s.experiences.HasVoted(ctx, tx, experienceID, voterID)
	if err != nil {
		return models.ExperienceVoteResult{}, err
	}

	dUp, dPoints := experienceVoteTransition(voted)
	message := "already voted"
	if dUp > 0 {
		if err := s.experiences.InsertVote(ctx, tx, experienceID, voterID); err != nil {
			return models.ExperienceVoteResult{}, err
		}
		if upvotes, err = s.experiences.AdjustUpvotes(ctx, tx, experienceID, dUp); err != nil {
			return models.ExperienceVoteResult{}, err
		}
		if err := s.users.AddPoints(ctx, tx, authorID, dPoints); err != nil {
			return models.ExperienceVoteResult{}, err
		}
		message = "vote recorded"
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ExperienceVoteResult{}, fmt.Errorf("commit vote tx: %w", err)
	}

	if dPoints != 0 {
		if err := s.leaderboard.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("invalidate leaderboard cache")
		}
	}

	votedNow := true
	return models.ExperienceVoteResult{
		Message:   message,
		Upvotes:   upvotes,
		UserVoted: &votedNow,
	}, nil
}
