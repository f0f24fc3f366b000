package client

import (
	"context"
	"encoding/json"
	"fmt"

	"placementhub/internal/models"
)

// List operations accept an optional filter mapping; entries are passed
// through cleanParams before the request is built. Every function returns
// exactly one of a usable value or an error, and never panics across the
// boundary.

func (c *Client) list(ctx context.Context, path string, filter map[string]any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, cleanParams(filter), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Branches

func (c *Client) Branches(ctx context.Context) ([]models.Branch, error) {
	raw, err := c.list(ctx, "/branches/", nil)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.Branch](raw)
}

// User profiles

func (c *Client) CreateProfile(ctx context.Context, profile models.NewUserProfile) (models.UserProfile, error) {
	var created models.UserProfile
	if err := c.post(ctx, "/users/", profile, &created); err != nil {
		return models.UserProfile{}, err
	}
	return created, nil
}

func (c *Client) Profile(ctx context.Context, supabaseUID string) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.get(ctx, fmt.Sprintf("/users/%s/", supabaseUID), nil, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (c *Client) CurrentProfile(ctx context.Context) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.get(ctx, "/users/me/", nil, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, supabaseUID string, patch models.UserProfilePatch) (models.UserProfile, error) {
	var updated models.UserProfile
	if err := c.patch(ctx, fmt.Sprintf("/users/%s/", supabaseUID), patch, &updated); err != nil {
		return models.UserProfile{}, err
	}
	return updated, nil
}

func (c *Client) Leaderboard(ctx context.Context) ([]models.UserProfile, error) {
	raw, err := c.list(ctx, "/users/leaderboard/", nil)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.UserProfile](raw)
}

// Subjects

func (c *Client) Subjects(ctx context.Context, filter map[string]any) ([]models.Subject, error) {
	raw, err := c.list(ctx, "/subjects/", filter)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.Subject](raw)
}

func (c *Client) Subject(ctx context.Context, id int64) (models.Subject, error) {
	var subject models.Subject
	if err := c.get(ctx, fmt.Sprintf("/subjects/%d/", id), nil, &subject); err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (c *Client) CreateSubject(ctx context.Context, subject models.NewSubject) (models.Subject, error) {
	var created models.Subject
	if err := c.post(ctx, "/subjects/", subject, &created); err != nil {
		return models.Subject{}, err
	}
	return created, nil
}

func (c *Client) SubjectPosts(ctx context.Context, subjectID int64, filter map[string]any) ([]models.Post, error) {
	raw, err := c.list(ctx, fmt.Sprintf("/subjects/%d/posts/", subjectID), filter)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.Post](raw)
}

// Posts

func (c *Client) Posts(ctx context.Context, filter map[string]any) ([]models.Post, error) {
	raw, err := c.list(ctx, "/posts/", filter)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.Post](raw)
}

func (c *Client) Post(ctx context.Context, id int64) (models.Post, error) {
	var post models.Post
	if err := c.get(ctx, fmt.Sprintf("/posts/%d/", id), nil, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// CreatePost refuses temporary subject placeholders before any network call:
// a non-persisted subject must never become a foreign key target.
func (c *Client) CreatePost(ctx context.Context, post models.NewPost) (models.Post, error) {
	if post.Subject <= 0 {
		return models.Post{}, ErrTemporarySubject
	}
	var created models.Post
	if err := c.post(ctx, "/posts/", post, &created); err != nil {
		return models.Post{}, err
	}
	return created, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (models.Post, error) {
	var updated models.Post
	if err := c.patch(ctx, fmt.Sprintf("/posts/%d/", id), patch, &updated); err != nil {
		return models.Post{}, err
	}
	return updated, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/posts/%d/", id))
}

// VoteOnPost submits 1, -1 or 0 (remove) and returns the server's recomputed
// counts. Callers overwrite local state with the result, never increment.
func (c *Client) VoteOnPost(ctx context.Context, postID int64, vote int) (models.PostVoteResult, error) {
	if vote != models.VoteUp && vote != models.VoteDown && vote != models.VoteRemove {
		return models.PostVoteResult{}, fmt.Errorf("invalid vote value %d", vote)
	}
	var result models.PostVoteResult
	body := map[string]int{"vote": vote}
	if err := c.post(ctx, fmt.Sprintf("/posts/%d/vote/", postID), body, &result); err != nil {
		return models.PostVoteResult{}, err
	}
	return result, nil
}

// Companies

func (c *Client) Companies(ctx context.Context, filter map[string]any) ([]models.Company, error) {
	raw, err := c.list(ctx, "/companies/", filter)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.Company](raw)
}

func (c *Client) Company(ctx context.Context, id int64) (models.Company, error) {
	var company models.Company
	if err := c.get(ctx, fmt.Sprintf("/companies/%d/", id), nil, &company); err != nil {
		return models.Company{}, err
	}
	return company, nil
}

func (c *Client) CreateCompany(ctx context.Context, company models.NewCompany) (models.Company, error) {
	var created models.Company
	if err := c.post(ctx, "/companies/", company, &created); err != nil {
		return models.Company{}, err
	}
	return created, nil
}

func (c *Client) CompanyExperiences(ctx context.Context, companyID int64, filter map[string]any) ([]models.InterviewExperience, error) {
	raw, err := c.list(ctx, fmt.Sprintf("/companies/%d/experiences/", companyID), filter)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.InterviewExperience](raw)
}

// Interview experiences

func (c *Client) Experiences(ctx context.Context, filter map[string]any) ([]models.InterviewExperience, error) {
	raw, err := c.list(ctx, "/experiences/", filter)
	if err != nil {
		return nil, err
	}
	return models.UnwrapList[models.InterviewExperience](raw)
}

func (c *Client) Experience(ctx context.Context, id int64) (models.InterviewExperience, error) {
	var experience models.InterviewExperience
	if err := c.get(ctx, fmt.Sprintf("/experiences/%d/", id), nil, &experience); err != nil {
		return models.InterviewExperience{}, err
	}
	return experience, nil
}

func (c *Client) CreateExperience(ctx context.Context, experience models.NewInterviewExperience) (models.InterviewExperience, error) {
	var created models.InterviewExperience
	if err := c.post(ctx, "/experiences/", experience, &created); err != nil {
		return models.InterviewExperience{}, err
	}
	return created, nil
}

func (c *Client) UpdateExperience(ctx context.Context, id int64, patch models.InterviewExperiencePatch) (models.InterviewExperience, error) {
	var updated models.InterviewExperience
	if err := c.patch(ctx, fmt.Sprintf("/experiences/%d/", id), patch, &updated); err != nil {
		return models.InterviewExperience{}, err
	}
	return updated, nil
}

func (c *Client) DeleteExperience(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/experiences/%d/", id))
}

// VoteOnExperience records an upvote-only, non-retractable vote. This is
// deliberately asymmetric with post voting.
func (c *Client) VoteOnExperience(ctx context.Context, experienceID int64, isUpvote bool) (models.ExperienceVoteResult, error) {
	var result models.ExperienceVoteResult
	body := map[string]bool{"is_upvote": isUpvote}
	if err := c.post(ctx, fmt.Sprintf("/experiences/%d/vote/", experienceID), body, &result); err != nil {
		return models.ExperienceVoteResult{}, err
	}
	return result, nil
}
