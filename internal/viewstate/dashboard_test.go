package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placementhub/internal/models"
)

type fakeDashboardSource struct {
	mu sync.Mutex

	companies    []models.Company
	companiesErr error
	posts        []models.Post
	postsErr     error
	branches     []models.Branch
	branchesErr  error

	voteResults  []models.PostVoteResult
	voteCalls    int
	companyCalls int
}

func (f *fakeDashboardSource) Companies(ctx context.Context, filter map[string]any) ([]models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companyCalls++
	return f.companies, f.companiesErr
}

func (f *fakeDashboardSource) Posts(ctx context.Context, filter map[string]any) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts, f.postsErr
}

func (f *fakeDashboardSource) Branches(ctx context.Context) ([]models.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.branches, f.branchesErr
}

func (f *fakeDashboardSource) VoteOnPost(ctx context.Context, postID int64, vote int) (models.PostVoteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.voteCalls >= len(f.voteResults) {
		return models.PostVoteResult{}, errors.New("unexpected vote call")
	}
	result := f.voteResults[f.voteCalls]
	f.voteCalls++
	return result, nil
}

func TestDashboardSectionFailureIsolation(t *testing.T) {
	src := &fakeDashboardSource{
		companies:   []models.Company{{ID: 1, Name: "Initech"}},
		postsErr:    errors.New("posts endpoint down"),
		branches:    []models.Branch{{ID: 1, Name: "CSE"}},
	}
	d := NewDashboard(src, zerolog.Nop())
	defer d.Close()

	d.Refresh(context.Background())

	assert.Len(t, d.Companies.Items(), 1)
	assert.Len(t, d.Branches.Items(), 1)
	assert.Error(t, d.RecentPosts.Err(), "only the failing section carries the error")
	assert.NoError(t, d.Companies.Err())
}

func TestDashboardRetrySingleSection(t *testing.T) {
	src := &fakeDashboardSource{companiesErr: errors.New("temporarily down")}
	d := NewDashboard(src, zerolog.Nop())
	defer d.Close()

	d.Refresh(context.Background())
	require.Error(t, d.Companies.Err())
	callsAfterRefresh := src.companyCalls

	src.mu.Lock()
	src.companiesErr = nil
	src.companies = []models.Company{{ID: 2, Name: "Globex"}}
	src.mu.Unlock()

	require.NoError(t, d.Retry(context.Background(), "companies"))
	assert.Equal(t, callsAfterRefresh+1, src.companyCalls)
	assert.Len(t, d.Companies.Items(), 1)
	assert.NoError(t, d.Companies.Err())

	assert.Error(t, d.Retry(context.Background(), "nope"))
}

func TestDashboardVoteOverwritesWithServerCounts(t *testing.T) {
	one := 1
	src := &fakeDashboardSource{
		posts: []models.Post{
			{ID: 5, Topic: "tries", Upvotes: 3, Downvotes: 1, NetScore: 2},
			{ID: 6, Topic: "heaps"},
		},
		voteResults: []models.PostVoteResult{
			{Upvotes: 10, Downvotes: 2, NetVotes: 8, UserVote: &one},
		},
	}
	d := NewDashboard(src, zerolog.Nop())
	defer d.Close()

	d.Refresh(context.Background())
	require.NoError(t, d.VotePost(context.Background(), 5, models.VoteUp))

	posts := d.RecentPosts.Items()
	require.Len(t, posts, 2)
	assert.Equal(t, 10, posts[0].Upvotes, "server count wins over local increment")
	assert.Equal(t, 8, posts[0].NetScore)
	require.NotNil(t, posts[0].UserVote)
	assert.Equal(t, 1, *posts[0].UserVote)
	assert.Zero(t, posts[1].Upvotes, "untouched post stays untouched")
}

func TestDashboardConcurrentVotesConverge(t *testing.T) {
	// Two quick votes resolve in order; the final state must reflect the
	// last server aggregate regardless of what the first one wrote.
	one := 1
	src := &fakeDashboardSource{
		posts: []models.Post{{ID: 9, Upvotes: 0}},
		voteResults: []models.PostVoteResult{
			{Upvotes: 1, NetVotes: 1, UserVote: &one},
			{Upvotes: 0, NetVotes: 0, UserVote: nil},
		},
	}
	d := NewDashboard(src, zerolog.Nop())
	defer d.Close()

	d.Refresh(context.Background())
	require.NoError(t, d.VotePost(context.Background(), 9, models.VoteUp))
	require.NoError(t, d.VotePost(context.Background(), 9, models.VoteRemove))

	posts := d.RecentPosts.Items()
	require.Len(t, posts, 1)
	assert.Zero(t, posts[0].Upvotes)
	assert.Nil(t, posts[0].UserVote)
}
