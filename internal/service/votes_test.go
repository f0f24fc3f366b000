package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"placementhub/internal/models"
)

func TestPostVoteTransition(t *testing.T) {
	cases := []struct {
		name                  string
		oldVote, newVote      int
		dUp, dDown, dAuthorPt int
	}{
		{"fresh upvote", 0, models.VoteUp, 1, 0, 1},
		{"fresh downvote", 0, models.VoteDown, 0, 1, -1},
		{"up to down", models.VoteUp, models.VoteDown, -1, 1, -2},
		{"down to up", models.VoteDown, models.VoteUp, 1, -1, 2},
		{"remove upvote", models.VoteUp, models.VoteRemove, -1, 0, -1},
		{"remove downvote", models.VoteDown, models.VoteRemove, 0, -1, 1},
		{"remove with no vote", 0, models.VoteRemove, 0, 0, 0},
		{"repeat upvote", models.VoteUp, models.VoteUp, 0, 0, 0},
		{"repeat downvote", models.VoteDown, models.VoteDown, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dUp, dDown, dPoints := postVoteTransition(tc.oldVote, tc.newVote)
			assert.Equal(t, tc.dUp, dUp, "upvote delta")
			assert.Equal(t, tc.dDown, dDown, "downvote delta")
			assert.Equal(t, tc.dAuthorPt, dPoints, "author points delta")
		})
	}
}

func TestExperienceVoteTransition(t *testing.T) {
	t.Run("first vote counts and pays the author", func(t *testing.T) {
		dUp, dPoints := experienceVoteTransition(false)
		assert.Equal(t, 1, dUp)
		assert.Equal(t, experienceUpvotePoints, dPoints)
	})

	t.Run("repeat vote is a no-op", func(t *testing.T) {
		dUp, dPoints := experienceVoteTransition(true)
		assert.Zero(t, dUp)
		assert.Zero(t, dPoints)
	})
}
