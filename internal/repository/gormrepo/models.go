// Package gormrepo implements the repository interfaces with gorm, for the
// postgres and sqlite dialects.
package gormrepo

import (
	"time"

	"gorm.io/gorm"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

type companyModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (companyModel) TableName() string { return "companies" }

type userModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Role      string `gorm:"not null;index:idx_users_company_role,priority:2"`
	CompanyID int64  `gorm:"not null;index:idx_users_company_role,priority:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

type ticketModel struct {
	ID         int64  `gorm:"primaryKey"`
	Type       string `gorm:"not null;index:idx_tickets_company_type,priority:2"`
	Status     string `gorm:"not null"`
	Category   string `gorm:"not null"`
	CompanyID  int64  `gorm:"not null;index:idx_tickets_company_type,priority:1"`
	AssigneeID int64  `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Company  *companyModel `gorm:"foreignKey:CompanyID"`
	Assignee *userModel    `gorm:"foreignKey:AssigneeID"`
}

func (ticketModel) TableName() string { return "tickets" }

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&companyModel{}, &userModel{}, &ticketModel{})
}

func (m companyModel) toDomain() domain.Company {
	return domain.Company{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Role:      domain.UserRole(m.Role),
		CompanyID: m.CompanyID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m ticketModel) toDomain() domain.Ticket {
	t := domain.Ticket{
		ID:         m.ID,
		Type:       domain.TicketType(m.Type),
		Status:     domain.TicketStatus(m.Status),
		Category:   domain.TicketCategory(m.Category),
		CompanyID:  m.CompanyID,
		AssigneeID: m.AssigneeID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Company != nil {
		c := m.Company.toDomain()
		t.Company = &c
	}
	if m.Assignee != nil {
		u := m.Assignee.toDomain()
		t.Assignee = &u
	}
	return t
}
