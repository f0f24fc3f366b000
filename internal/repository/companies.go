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

var ErrCompanyNotFound = errors.New("company not found")

type CompanyFilter struct {
	Search string
	Tier   string
	Limit  int
	Offset int
}

const companyColumns = `
	c.id, c.name, c.website, c.logo_url, c.salary_range, c.tier,
	(SELECT COUNT(*) FROM interview_experiences e WHERE e.company_id = c.id) AS experiences_count,
	c.created_at
`

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func scanCompany(row pgx.Row) (models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.Name, &c.Website, &c.LogoURL, &c.SalaryRange, &c.Tier, &c.ExperiencesCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Company{}, ErrCompanyNotFound
		}
		return models.Company{}, err
	}
	return c, nil
}

func (r *CompanyRepository) List(ctx context.Context, filter CompanyFilter) ([]models.Company, int, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		conds = append(conds, "c.name ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.Tier != "" {
		conds = append(conds, "c.tier = "+arg(filter.Tier))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies c"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + companyColumns + "FROM companies c" + where +
		" ORDER BY c.name ASC" +
		" LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	companies := make([]models.Company, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

func (r *CompanyRepository) Get(ctx context.Context, id int64) (models.Company, error) {
	const query = `SELECT` + companyColumns + `FROM companies c WHERE c.id = $1`
	return scanCompany(r.pool.QueryRow(ctx, query, id))
}

func (r *CompanyRepository) Create(ctx context.Context, company models.NewCompany) (models.Company, error) {
	tier := company.Tier
	if tier == "" {
		tier = models.CompanyTier3
	}
	const query = `
		INSERT INTO companies (name, website, salary_range, tier)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, website, logo_url, salary_range, tier, 0 AS experiences_count, created_at
	`
	row := r.pool.QueryRow(ctx, query, company.Name, company.Website, company.SalaryRange, tier)
	return scanCompany(row)
}

// SetLogoURL records the public URL of an uploaded company logo.
func (r *CompanyRepository) SetLogoURL(ctx context.Context, id int64, url string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE companies SET logo_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
