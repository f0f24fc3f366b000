package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"placementhub/internal/models"
)

var ErrExperienceNotFound = errors.New("interview experience not found")

type ExperienceFilter struct {
	CompanyID int64
	PostedBy  int64
	Position  string
	Result    string
	ViewerID  int64
	Limit     int
	Offset    int
}

const experienceColumns = `
	e.id, e.company_id, c.name, e.posted_by, u.full_name,
	e.position, to_char(e.interview_date, 'YYYY-MM-DD'),
	e.rounds, e.questions, e.tips, e.difficulty_level, e.result,
	e.upvotes, ev.user_id IS NOT NULL AS user_voted,
	e.created_at, e.updated_at
`

const experienceJoins = `
	FROM interview_experiences e
	JOIN companies c ON c.id = e.company_id
	JOIN user_profiles u ON u.id = e.posted_by
	LEFT JOIN experience_votes ev ON ev.experience_id = e.id AND ev.user_id = $1
`

type ExperienceRepository struct {
	pool *pgxpool.Pool
}

func NewExperienceRepository(pool *pgxpool.Pool) *ExperienceRepository {
	return &ExperienceRepository{pool: pool}
}

func scanExperience(row pgx.Row) (models.InterviewExperience, error) {
	var e models.InterviewExperience
	err := row.Scan(
		&e.ID, &e.Company, &e.CompanyName, &e.PostedBy, &e.PostedByName,
		&e.Position, &e.InterviewDate,
		&e.Rounds, &e.Questions, &e.Tips, &e.DifficultyLevel, &e.Result,
		&e.Upvotes, &e.UserVoted,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.InterviewExperience{}, ErrExperienceNotFound
		}
		return models.InterviewExperience{}, err
	}
	return e, nil
}

func (r *ExperienceRepository) List(ctx context.Context, filter ExperienceFilter) ([]models.InterviewExperience, int, error) {
	args := []any{filter.ViewerID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var conds []string
	if filter.CompanyID > 0 {
		conds = append(conds, "e.company_id = "+arg(filter.CompanyID))
	}
	if filter.PostedBy > 0 {
		conds = append(conds, "e.posted_by = "+arg(filter.PostedBy))
	}
	if filter.Position != "" {
		conds = append(conds, "e.position ILIKE "+arg("%"+filter.Position+"%"))
	}
	if filter.Result != "" {
		conds = append(conds, "e.result = "+arg(filter.Result))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+experienceJoins+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + experienceColumns + experienceJoins + where +
		" ORDER BY e.created_at DESC, e.id DESC" +
		" LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	experiences := make([]models.InterviewExperience, 0, filter.Limit)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, 0, err
		}
		experiences = append(experiences, e)
	}
	return experiences, total, rows.Err()
}

func (r *ExperienceRepository) Get(ctx context.Context, id, viewerID int64) (models.InterviewExperience, error) {
	query := "SELECT" + experienceColumns + experienceJoins + " WHERE e.id = $2"
	return scanExperience(r.pool.QueryRow(ctx, query, viewerID, id))
}

func (r *ExperienceRepository) Create(ctx context.Context, postedBy int64, exp models.NewInterviewExperience) (models.InterviewExperience, error) {
	const query = `
		INSERT INTO interview_experiences
			(company_id, posted_by, position, interview_date, rounds, questions, tips, difficulty_level, result)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		exp.Company, postedBy, exp.Position, exp.InterviewDate,
		exp.Rounds, exp.Questions, exp.Tips, exp.DifficultyLevel, exp.Result,
	).Scan(&id)
	if err != nil {
		return models.InterviewExperience{}, err
	}
	return r.Get(ctx, id, postedBy)
}

func (r *ExperienceRepository) Patch(ctx context.Context, id, viewerID int64, patch models.InterviewExperiencePatch) (models.InterviewExperience, error) {
	const query = `
		UPDATE interview_experiences SET
			position         = COALESCE($2, position),
			interview_date   = COALESCE($3::date, interview_date),
			rounds           = COALESCE($4, rounds),
			questions        = COALESCE($5, questions),
			tips             = COALESCE($6, tips),
			difficulty_level = COALESCE($7, difficulty_level),
			result           = COALESCE($8, result),
			updated_at       = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id,
		patch.Position, patch.InterviewDate, patch.Rounds,
		patch.Questions, patch.Tips, patch.DifficultyLevel, patch.Result)
	if err != nil {
		return models.InterviewExperience{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.InterviewExperience{}, ErrExperienceNotFound
	}
	return r.Get(ctx, id, viewerID)
}

func (r *ExperienceRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM interview_experiences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// GetForUpdate locks the experience row and returns its author and upvotes.
func (r *ExperienceRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (authorID int64, upvotes int, err error) {
	const query = `SELECT posted_by, upvotes FROM interview_experiences WHERE id = $1 FOR UPDATE`
	err = q.QueryRow(ctx, query, id).Scan(&authorID, &upvotes)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrExperienceNotFound
	}
	return authorID, upvotes, err
}

// HasVoted reports whether the viewer already upvoted the experience.
func (r *ExperienceRepository) HasVoted(ctx context.Context, q Querier, experienceID, userID int64) (bool, error) {
	var voted bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM experience_votes WHERE experience_id = $1 AND user_id = $2)`,
		experienceID, userID).Scan(&voted)
	return voted, err
}

func (r *ExperienceRepository) InsertVote(ctx context.Context, q Querier, experienceID, userID int64) error {
	_, err := q.Exec(ctx,
		`INSERT INTO experience_votes (experience_id, user_id, is_upvote) VALUES ($1, $2, TRUE) ON CONFLICT DO NOTHING`,
		experienceID, userID)
	return err
}

// AdjustUpvotes applies a delta to the cached upvote tally and returns the new
// value.
func (r *ExperienceRepository) AdjustUpvotes(ctx context.Context, q Querier, experienceID int64, delta int) (int, error) {
	var upvotes int
	err := q.QueryRow(ctx,
		`UPDATE interview_experiences SET upvotes = upvotes + $2, updated_at = NOW() WHERE id = $1 RETURNING upvotes`,
		experienceID, delta).Scan(&upvotes)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrExperienceNotFound
	}
	return upvotes, err
}
