package viewstate

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"placementhub/internal/models"
)

// CompanySource is the slice of the resource client a company view reads.
type CompanySource interface {
	Company(ctx context.Context, id int64) (models.Company, error)
	CompanyExperiences(ctx context.Context, companyID int64, filter map[string]any) ([]models.InterviewExperience, error)
	VoteOnExperience(ctx context.Context, experienceID int64, isUpvote bool) (models.ExperienceVoteResult, error)
}

// CompanyView owns one company's detail and its experience list.
type CompanyView struct {
	api       CompanySource
	log       zerolog.Logger
	companyID int64

	Detail      *Section[models.Company]
	Experiences *Section[models.InterviewExperience]
}

func NewCompanyView(api CompanySource, companyID int64, logger zerolog.Logger) *CompanyView {
	return &CompanyView{
		api:         api,
		log:         logger,
		companyID:   companyID,
		Detail:      NewSection[models.Company]("company"),
		Experiences: NewSection[models.InterviewExperience]("experiences"),
	}
}

func (v *CompanyView) Refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		v.Detail.Load(ctx, func(ctx context.Context) ([]models.Company, error) {
			company, err := v.api.Company(ctx, v.companyID)
			if err != nil {
				return nil, err
			}
			return []models.Company{company}, nil
		})
		return nil
	})
	g.Go(func() error {
		v.Experiences.Load(ctx, func(ctx context.Context) ([]models.InterviewExperience, error) {
			return v.api.CompanyExperiences(ctx, v.companyID, nil)
		})
		return nil
	})
	_ = g.Wait()
}

// VoteExperience records an upvote and overwrites the affected record with
// the server aggregate. Experience votes are not retractable.
func (v *CompanyView) VoteExperience(ctx context.Context, experienceID int64) error {
	result, err := v.api.VoteOnExperience(ctx, experienceID, true)
	if err != nil {
		return err
	}

	v.Experiences.Update(func(items []models.InterviewExperience) []models.InterviewExperience {
		for i := range items {
			if items[i].ID != experienceID {
				continue
			}
			items[i].Upvotes = result.Upvotes
			items[i].UserVoted = result.UserVoted
		}
		return items
	})
	return nil
}

func (v *CompanyView) Close() {
	v.Detail.Close()
	v.Experiences.Close()
}
