package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

// TicketFilter narrows ticket queries. Zero values match everything.
type TicketFilter struct {
	CompanyID *int64
	Types     []domain.TicketType
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Delete removes a ticket; used to roll back a partially applied create.
	Delete(ctx context.Context, id int64) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListWithRelations returns every ticket with Company and Assignee attached.
	ListWithRelations(ctx context.Context) ([]domain.Ticket, error)
	// ResolveOpenByCompany marks the company's open tickets resolved, skipping exceptID.
	ResolveOpenByCompany(ctx context.Context, companyID, exceptID int64) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, type, status, category, company_id, assignee_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (type, status, category, company_id, assignee_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Type,
		ticket.Status,
		ticket.Category,
		ticket.CompanyID,
		ticket.AssigneeID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return notFound(pgx.ErrNoRows, "ticket", id)
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			args = append(args, t)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY id`, ticketColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListWithRelations(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT t.id, t.type, t.status, t.category, t.company_id, t.assignee_id, t.created_at, t.updated_at,
               c.id, c.name, c.created_at,
               u.id, u.name, u.role, u.company_id, u.created_at, u.updated_at
        FROM tickets t
        JOIN companies c ON c.id = t.company_id
        JOIN users u ON u.id = t.assignee_id
        ORDER BY t.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket   domain.Ticket
			company  domain.Company
			assignee domain.User
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Type,
			&ticket.Status,
			&ticket.Category,
			&ticket.CompanyID,
			&ticket.AssigneeID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&company.ID,
			&company.Name,
			&company.CreatedAt,
			&assignee.ID,
			&assignee.Name,
			&assignee.Role,
			&assignee.CompanyID,
			&assignee.CreatedAt,
			&assignee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ticket.Company = &company
		ticket.Assignee = &assignee
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) ResolveOpenByCompany(ctx context.Context, companyID, exceptID int64) (int64, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE company_id=$2 AND status=$3 AND id<>$4`
	cmd, err := r.pool.Exec(ctx, query,
		domain.TicketStatusResolved,
		companyID,
		domain.TicketStatusOpen,
		exceptID,
	)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Type,
			&ticket.Status,
			&ticket.Category,
			&ticket.CompanyID,
			&ticket.AssigneeID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
