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

var ErrSubjectNotFound = errors.New("subject not found")

// SubjectFilter narrows the subject listing. Name matching is exact but
// case-insensitive; a branch filter without a name also includes common
// subjects so every branch sees the shared ones.
type SubjectFilter struct {
	Name     string
	Branch   string
	IsCommon *bool
}

const subjectColumns = `
	s.id, s.name, s.branch, s.description, s.is_common,
	(SELECT COUNT(*) FROM posts p WHERE p.subject_id = s.id) AS posts_count,
	s.created_at
`

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func scanSubject(row pgx.Row) (models.Subject, error) {
	var s models.Subject
	err := row.Scan(&s.ID, &s.Name, &s.Branch, &s.Description, &s.IsCommon, &s.PostsCount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Subject{}, ErrSubjectNotFound
		}
		return models.Subject{}, err
	}
	return s, nil
}

func (r *SubjectRepository) List(ctx context.Context, filter SubjectFilter) ([]models.Subject, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case filter.Name != "" && filter.Branch != "":
		conds = append(conds, "LOWER(s.name) = LOWER("+arg(filter.Name)+")")
		conds = append(conds, "LOWER(s.branch) = LOWER("+arg(filter.Branch)+")")
	case filter.Name != "":
		conds = append(conds, "LOWER(s.name) = LOWER("+arg(filter.Name)+")")
	case filter.Branch != "":
		conds = append(conds, "(LOWER(s.branch) = LOWER("+arg(filter.Branch)+") OR s.is_common = TRUE)")
	}
	if filter.IsCommon != nil && filter.Name == "" && filter.Branch == "" {
		conds = append(conds, "s.is_common = "+arg(*filter.IsCommon))
	}

	query := "SELECT" + subjectColumns + "FROM subjects s"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.name ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]models.Subject, 0, 16)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Get(ctx context.Context, id int64) (models.Subject, error) {
	const query = `SELECT` + subjectColumns + `FROM subjects s WHERE s.id = $1`
	return scanSubject(r.pool.QueryRow(ctx, query, id))
}

func (r *SubjectRepository) Create(ctx context.Context, subject models.NewSubject) (models.Subject, error) {
	const query = `
		INSERT INTO subjects (name, branch, description, is_common)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, branch, description, is_common, 0 AS posts_count, created_at
	`
	row := r.pool.QueryRow(ctx, query, subject.Name, subject.Branch, subject.Description, subject.IsCommon)
	return scanSubject(row)
}
