package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

// CompanyRepository encapsulates company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, created_at)
        VALUES ($1, COALESCE($2, NOW()))
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, company.Name, createdAt(company.CreatedAt)).
		Scan(&company.ID, &company.CreatedAt)
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	const query = `SELECT id, name, created_at FROM companies WHERE id=$1`
	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
		return nil, notFound(err, "company", id)
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Company
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, company)
	}
	return result, rows.Err()
}
