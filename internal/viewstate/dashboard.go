package viewstate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"placementhub/internal/models"
)

const (
	dashboardCompanies = 6
	dashboardPosts     = 4
)

// DashboardSource is the slice of the resource client the dashboard reads.
type DashboardSource interface {
	Companies(ctx context.Context, filter map[string]any) ([]models.Company, error)
	Posts(ctx context.Context, filter map[string]any) ([]models.Post, error)
	Branches(ctx context.Context) ([]models.Branch, error)
	VoteOnPost(ctx context.Context, postID int64, vote int) (models.PostVoteResult, error)
}

// Dashboard owns the home view's three sections. Fetches are issued
// concurrently with no ordering guarantee; each section fails independently.
type Dashboard struct {
	api DashboardSource
	log zerolog.Logger

	Companies   *Section[models.Company]
	RecentPosts *Section[models.Post]
	Branches    *Section[models.Branch]
}

func NewDashboard(api DashboardSource, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		api:         api,
		log:         logger,
		Companies:   NewSection[models.Company]("companies"),
		RecentPosts: NewSection[models.Post]("posts"),
		Branches:    NewSection[models.Branch]("branches"),
	}
}

// Refresh loads all sections concurrently and waits for every one to settle.
// Section failures stay inside their section; Refresh itself never fails.
func (d *Dashboard) Refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		d.loadCompanies(ctx)
		return nil
	})
	g.Go(func() error {
		d.loadPosts(ctx)
		return nil
	})
	g.Go(func() error {
		d.loadBranches(ctx)
		return nil
	})
	_ = g.Wait()
}

// Retry re-issues only the named section's fetch.
func (d *Dashboard) Retry(ctx context.Context, section string) error {
	switch section {
	case d.Companies.Name():
		d.loadCompanies(ctx)
	case d.RecentPosts.Name():
		d.loadPosts(ctx)
	case d.Branches.Name():
		d.loadBranches(ctx)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return nil
}

func (d *Dashboard) loadCompanies(ctx context.Context) {
	d.Companies.Load(ctx, func(ctx context.Context) ([]models.Company, error) {
		return d.api.Companies(ctx, map[string]any{"page_size": dashboardCompanies})
	})
}

func (d *Dashboard) loadPosts(ctx context.Context) {
	d.RecentPosts.Load(ctx, func(ctx context.Context) ([]models.Post, error) {
		return d.api.Posts(ctx, map[string]any{"page_size": dashboardPosts})
	})
}

func (d *Dashboard) loadBranches(ctx context.Context) {
	d.Branches.Load(ctx, func(ctx context.Context) ([]models.Branch, error) {
		return d.api.Branches(ctx)
	})
}

// VotePost submits a vote and overwrites the affected record with the
// server's authoritative counts via read-modify-write on the latest list.
func (d *Dashboard) VotePost(ctx context.Context, postID int64, vote int) error {
	result, err := d.api.VoteOnPost(ctx, postID, vote)
	if err != nil {
		return err
	}

	d.RecentPosts.Update(func(posts []models.Post) []models.Post {
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}
			posts[i].Upvotes = result.Upvotes
			posts[i].Downvotes = result.Downvotes
			posts[i].NetScore = result.NetVotes
			posts[i].UserVote = result.UserVote
		}
		return posts
	})
	return nil
}

// Close discards in-flight results for an abandoned view.
func (d *Dashboard) Close() {
	d.Companies.Close()
	d.RecentPosts.Close()
	d.Branches.Close()
}
