package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"placementhub/internal/models"
)

var ErrProfileNotFound = errors.New("user profile not found")

const profileColumns = `
	id, supabase_uid, email, full_name, branch, year, points,
	bio, skills, linkedin_url, github_url, placement_status,
	created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanProfile(row pgx.Row) (models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.ID,
		&p.SupabaseUID,
		&p.Email,
		&p.FullName,
		&p.Branch,
		&p.Year,
		&p.Points,
		&p.Bio,
		&p.Skills,
		&p.LinkedinURL,
		&p.GithubURL,
		&p.PlacementStatus,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserProfile{}, ErrProfileNotFound
		}
		return models.UserProfile{}, err
	}
	return p, nil
}

func (r *UserRepository) Create(ctx context.Context, profile models.NewUserProfile) (models.UserProfile, error) {
	const query = `
		INSERT INTO user_profiles (supabase_uid, email, full_name, branch, year, points)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + profileColumns

	row := r.pool.QueryRow(ctx, query,
		profile.SupabaseUID,
		profile.Email,
		profile.FullName,
		profile.Branch,
		profile.Year,
		profile.Points,
	)
	return scanProfile(row)
}

func (r *UserRepository) GetBySupabaseUID(ctx context.Context, uid string) (models.UserProfile, error) {
	const query = `SELECT` + profileColumns + `FROM user_profiles WHERE supabase_uid = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, uid))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.UserProfile, error) {
	const query = `SELECT` + profileColumns + `FROM user_profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// Patch applies a partial update keyed by the immutable supabase uid. Nil
// fields keep their current value.
func (r *UserRepository) Patch(ctx context.Context, uid string, patch models.UserProfilePatch) (models.UserProfile, error) {
	const query = `
		UPDATE user_profiles SET
			full_name        = COALESCE($2, full_name),
			branch           = COALESCE($3, branch),
			year             = COALESCE($4, year),
			bio              = COALESCE($5, bio),
			skills           = COALESCE($6, skills),
			linkedin_url     = COALESCE($7, linkedin_url),
			github_url       = COALESCE($8, github_url),
			placement_status = COALESCE($9, placement_status),
			updated_at       = NOW()
		WHERE supabase_uid = $1
		RETURNING` + profileColumns

	row := r.pool.QueryRow(ctx, query, uid,
		patch.FullName,
		patch.Branch,
		patch.Year,
		patch.Bio,
		patch.Skills,
		patch.LinkedinURL,
		patch.GithubURL,
		patch.PlacementStatus,
	)
	return scanProfile(row)
}

// Leaderboard returns the top contributors by points.
func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]models.UserProfile, error) {
	const query = `SELECT` + profileColumns + `FROM user_profiles ORDER BY points DESC, id ASC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.UserProfile, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, p)
	}
	return users, rows.Err()
}

// AddPoints adjusts a profile's points, never below zero. Pass a transaction
// to move points atomically with a vote; nil runs against the pool.
func (r *UserRepository) AddPoints(ctx context.Context, q Querier, id int64, delta int) error {
	if q == nil {
		q = r.pool
	}
	const query = `
		UPDATE user_profiles
		SET points = GREATEST(0, points + $2), updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := q.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// RecomputePoints rebuilds every profile's points from first principles:
// 5 per post, 10 per experience, net post upvotes, 2 per experience upvote.
// The worker runs this to repair drift from crashed vote transactions.
func (r *UserRepository) RecomputePoints(ctx context.Context) (int64, error) {
	const query = `
		WITH earned AS (
			SELECT up.id,
				COALESCE(p.posted, 0) * 5 +
				COALESCE(e.posted, 0) * 10 +
				GREATEST(0, COALESCE(pv.net, 0)) +
				COALESCE(ev.ups, 0) * 2 AS total
			FROM user_profiles up
			LEFT JOIN (SELECT posted_by, COUNT(*) AS posted FROM posts GROUP BY posted_by) p ON p.posted_by = up.id
			LEFT JOIN (SELECT posted_by, COUNT(*) AS posted FROM interview_experiences GROUP BY posted_by) e ON e.posted_by = up.id
			LEFT JOIN (
				SELECT po.posted_by, SUM(po.upvotes - po.downvotes) AS net
				FROM posts po GROUP BY po.posted_by
			) pv ON pv.posted_by = up.id
			LEFT JOIN (
				SELECT ie.posted_by, SUM(ie.upvotes) AS ups
				FROM interview_experiences ie GROUP BY ie.posted_by
			) ev ON ev.posted_by = up.id
		)
		UPDATE user_profiles up
		SET points = earned.total, updated_at = NOW()
		FROM earned
		WHERE up.id = earned.id AND up.points <> earned.total
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
