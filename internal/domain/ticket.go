package domain

import "time"

// TicketType enumerates the administrative requests a company can raise.
type TicketType string

const (
	TicketTypeManagementReport          TicketType = "managementReport"
	TicketTypeRegistrationAddressChange TicketType = "registrationAddressChange"
	TicketTypeStrikeOff                 TicketType = "strikeOff"
)

// TicketTypes lists every supported ticket type.
func TicketTypes() []TicketType {
	return []TicketType{
		TicketTypeManagementReport,
		TicketTypeRegistrationAddressChange,
		TicketTypeStrikeOff,
	}
}

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
)

// TicketCategory groups tickets by the department handling them.
type TicketCategory string

const (
	TicketCategoryAccounting TicketCategory = "accounting"
	TicketCategoryCorporate  TicketCategory = "corporate"
	TicketCategoryManagement TicketCategory = "management"
)

// Ticket is an administrative task assigned to a company employee.
type Ticket struct {
	ID         int64
	Type       TicketType
	Status     TicketStatus
	Category   TicketCategory
	CompanyID  int64
	AssigneeID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Populated by listing queries only.
	Company  *Company
	Assignee *User
}
