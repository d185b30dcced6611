package dto

import (
	"github.com/ledgerdesk/backoffice/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Type      string `json:"type"`
	CompanyID int64  `json:"companyId"`
}

// TicketResponse is the ticket as returned on creation.
type TicketResponse struct {
	ID         int64                 `json:"id"`
	Type       domain.TicketType     `json:"type"`
	CompanyID  int64                 `json:"companyId"`
	AssigneeID int64                 `json:"assigneeId"`
	Status     domain.TicketStatus   `json:"status"`
	Category   domain.TicketCategory `json:"category"`
}

// CompanyRef is the embedded company of a listed ticket.
type CompanyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AssigneeRef is the embedded assignee of a listed ticket.
type AssigneeRef struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Role domain.UserRole `json:"role"`
}

// TicketListItem adds the related company and assignee.
type TicketListItem struct {
	TicketResponse
	Company  *CompanyRef  `json:"company,omitempty"`
	Assignee *AssigneeRef `json:"assignee,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID,
		Type:       t.Type,
		CompanyID:  t.CompanyID,
		AssigneeID: t.AssigneeID,
		Status:     t.Status,
		Category:   t.Category,
	}
}

// NewTicketListItem maps a domain ticket with its relations.
func NewTicketListItem(t *domain.Ticket) TicketListItem {
	item := TicketListItem{TicketResponse: NewTicketResponse(t)}
	if t.Company != nil {
		item.Company = &CompanyRef{ID: t.Company.ID, Name: t.Company.Name}
	}
	if t.Assignee != nil {
		item.Assignee = &AssigneeRef{ID: t.Assignee.ID, Name: t.Assignee.Name, Role: t.Assignee.Role}
	}
	return item
}
