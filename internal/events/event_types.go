package events

import (
	"time"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketsResolved EventType = "tickets_resolved"

	reportStatePrefix = "report_state_changed:"
)

// ReportStateChanged is the per-scope channel carrying ProcessState updates.
func ReportStateChanged(scope domain.ReportScope) EventType {
	return EventType(reportStatePrefix + string(scope))
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   int64                 `json:"ticket_id"`
	Type       domain.TicketType     `json:"type"`
	Category   domain.TicketCategory `json:"category"`
	CompanyID  int64                 `json:"company_id"`
	AssigneeID int64                 `json:"assignee_id"`
}

// TicketsResolvedPayload is emitted when a strike-off closes a company's open tickets.
type TicketsResolvedPayload struct {
	CompanyID     int64 `json:"company_id"`
	TriggerTicket int64 `json:"trigger_ticket_id"`
	Resolved      int64 `json:"resolved"`
}

// ReportStatePayload carries the snapshot after a state transition.
type ReportStatePayload struct {
	Scope domain.ReportScope  `json:"scope"`
	State domain.ProcessState `json:"state"`
}
