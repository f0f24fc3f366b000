package viewstate

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placementhub/internal/models"
)

type fakeCompanySource struct {
	company     models.Company
	companyErr  error
	experiences []models.InterviewExperience
	expErr      error
	voteResult  models.ExperienceVoteResult
	voteErr     error
}

func (f *fakeCompanySource) Company(ctx context.Context, id int64) (models.Company, error) {
	return f.company, f.companyErr
}

func (f *fakeCompanySource) CompanyExperiences(ctx context.Context, companyID int64, filter map[string]any) ([]models.InterviewExperience, error) {
	return f.experiences, f.expErr
}

func (f *fakeCompanySource) VoteOnExperience(ctx context.Context, experienceID int64, isUpvote bool) (models.ExperienceVoteResult, error) {
	return f.voteResult, f.voteErr
}

func TestCompanyViewRefresh(t *testing.T) {
	src := &fakeCompanySource{
		company: models.Company{ID: 3, Name: "Hooli"},
		experiences: []models.InterviewExperience{
			{ID: 11, Position: "SDE Intern", Upvotes: 2},
		},
	}
	v := NewCompanyView(src, 3, zerolog.Nop())
	defer v.Close()

	v.Refresh(context.Background())

	detail := v.Detail.Items()
	require.Len(t, detail, 1)
	assert.Equal(t, "Hooli", detail[0].Name)
	assert.Len(t, v.Experiences.Items(), 1)
}

func TestCompanyViewDetailFailureLeavesExperiences(t *testing.T) {
	src := &fakeCompanySource{
		companyErr:  errors.New("company fetch failed"),
		experiences: []models.InterviewExperience{{ID: 1}},
	}
	v := NewCompanyView(src, 1, zerolog.Nop())
	defer v.Close()

	v.Refresh(context.Background())

	assert.Error(t, v.Detail.Err())
	assert.Len(t, v.Experiences.Items(), 1)
}

func TestCompanyViewVoteOverwritesAggregates(t *testing.T) {
	voted := true
	src := &fakeCompanySource{
		experiences: []models.InterviewExperience{
			{ID: 11, Upvotes: 2},
			{ID: 12, Upvotes: 5},
		},
		voteResult: models.ExperienceVoteResult{Message: "vote recorded", Upvotes: 3, UserVoted: &voted},
	}
	v := NewCompanyView(src, 1, zerolog.Nop())
	defer v.Close()

	v.Refresh(context.Background())
	require.NoError(t, v.VoteExperience(context.Background(), 11))

	items := v.Experiences.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Upvotes)
	require.NotNil(t, items[0].UserVoted)
	assert.True(t, *items[0].UserVoted)
	assert.Equal(t, 5, items[1].Upvotes)
}
