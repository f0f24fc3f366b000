package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"placementhub/internal/models"
)

type BranchRepository struct {
	pool *pgxpool.Pool
}

func NewBranchRepository(pool *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

func (r *BranchRepository) ListActive(ctx context.Context) ([]models.Branch, error) {
	const query = `
		SELECT id, name, description, is_active, created_at
		FROM branches
		WHERE is_active = TRUE
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]models.Branch, 0, 8)
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}
