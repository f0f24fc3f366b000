package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		supabase_uid TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL DEFAULT '',
		branch TEXT NOT NULL DEFAULT '',
		year INT NOT NULL DEFAULT 1,
		points INT NOT NULL DEFAULT 0,
		bio TEXT NOT NULL DEFAULT '',
		skills TEXT NOT NULL DEFAULT '',
		linkedin_url TEXT NOT NULL DEFAULT '',
		github_url TEXT NOT NULL DEFAULT '',
		placement_status TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS branches (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		branch TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		is_common BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (name, branch)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		posted_by BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		post_type TEXT NOT NULL DEFAULT 'question',
		topic TEXT NOT NULL,
		notes_link TEXT NOT NULL DEFAULT '',
		video_link TEXT NOT NULL DEFAULT '',
		focus_points TEXT NOT NULL DEFAULT '',
		upvotes INT NOT NULL DEFAULT 0,
		downvotes INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_subject ON posts (subject_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS post_votes (
		user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		vote INT NOT NULL CHECK (vote IN (1, -1)),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, post_id)
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		website TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		salary_range TEXT NOT NULL DEFAULT '',
		tier TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS interview_experiences (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		posted_by BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		position TEXT NOT NULL,
		interview_date DATE NOT NULL,
		rounds TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL DEFAULT '',
		tips TEXT NOT NULL DEFAULT '',
		difficulty_level INT NOT NULL CHECK (difficulty_level IN (1, 2, 3)),
		result TEXT NOT NULL DEFAULT 'pending',
		upvotes INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_experiences_company ON interview_experiences (company_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS experience_votes (
		user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
		experience_id BIGINT NOT NULL REFERENCES interview_experiences(id) ON DELETE CASCADE,
		is_upvote BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, experience_id)
	)`,
}

// EnsureSchema applies the idempotent DDL on startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
