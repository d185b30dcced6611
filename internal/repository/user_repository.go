package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

// UserRepository defines persistence access for company employees.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// ListByCompanyAndRole returns matches newest first (created_at DESC, id DESC).
	ListByCompanyAndRole(ctx context.Context, companyID int64, role domain.UserRole) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, role, company_id, created_at, updated_at)
        VALUES ($1, $2, $3, COALESCE($4, NOW()), NOW())
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Role,
		user.CompanyID,
		createdAt(user.CreatedAt),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) ListByCompanyAndRole(ctx context.Context, companyID int64, role domain.UserRole) ([]domain.User, error) {
	const query = `
        SELECT id, name, role, company_id, created_at, updated_at
        FROM users WHERE company_id=$1 AND role=$2
        ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, companyID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Role,
			&user.CompanyID,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
