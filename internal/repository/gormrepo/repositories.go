package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/repository"
)

func notFound(err error, resource string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", resource, id, repository.ErrNotFound)
	}
	return err
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository returns a gorm-backed CompanyRepository.
func NewCompanyRepository(db *gorm.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	m := companyModel{Name: company.Name, CreatedAt: company.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*company = m.toDomain()
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	var m companyModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, "company", id)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	var models []companyModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Company, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	m := userModel{
		Name:      user.Name,
		Role:      string(user.Role),
		CompanyID: user.CompanyID,
		CreatedAt: user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*user = m.toDomain()
	return nil
}

func (r *userRepository) ListByCompanyAndRole(ctx context.Context, companyID int64, role domain.UserRole) ([]domain.User, error) {
	var models []userModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ?", companyID, string(role)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository returns a gorm-backed TicketRepository.
func NewTicketRepository(db *gorm.DB) repository.TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	m := ticketModel{
		Type:       string(ticket.Type),
		Status:     string(ticket.Status),
		Category:   string(ticket.Category),
		CompanyID:  ticket.CompanyID,
		AssigneeID: ticket.AssigneeID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*ticket = m.toDomain()
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&ticketModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "ticket", id)
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	q := r.db.WithContext(ctx).Model(&ticketModel{})
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		q = q.Where("type IN ?", types)
	}

	var models []ticketModel
	if err := q.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Ticket, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *ticketRepository) ListWithRelations(ctx context.Context) ([]domain.Ticket, error) {
	var models []ticketModel
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Assignee").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ticket, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *ticketRepository) ResolveOpenByCompany(ctx context.Context, companyID, exceptID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&ticketModel{}).
		Where("company_id = ? AND status = ? AND id <> ?", companyID, string(domain.TicketStatusOpen), exceptID).
		Updates(map[string]any{
			"status":     string(domain.TicketStatusResolved),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
