package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/events"
	"github.com/ledgerdesk/backoffice/internal/repository"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

const msgDuplicateAddressChange = "Company already has a registrationAddressChange ticket"

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	companies  repository.CompanyRepository
	assignment *AssignmentService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CompanyRepo repository.CompanyRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Type      string
	CompanyID int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		companies:  deps.CompanyRepo,
		assignment: NewAssignmentService(deps.UserRepo),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket validates the request, picks an assignee by rule and stores
// an open ticket. A strikeOff ticket resolves every other open ticket of the
// same company.
//
// Neither the duplicate check nor the resolution shares a transaction with the
// insert, so concurrent requests for one company can still race. When the
// strikeOff resolution fails the new ticket is deleted again.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticketType, ok := domain.ParseTicketType(input.Type)
	if !ok {
		return nil, apperrors.NewValidationError("unsupported ticket type", map[string]any{"type": input.Type})
	}
	if input.CompanyID <= 0 {
		return nil, apperrors.NewValidationError("companyId must be a positive integer", map[string]any{"companyId": input.CompanyID})
	}
	if _, err := s.companies.GetByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": input.CompanyID})
		}
		return nil, apperrors.MapError(err)
	}

	if ticketType == domain.TicketTypeRegistrationAddressChange {
		existing, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
			CompanyID: &input.CompanyID,
			Types:     []domain.TicketType{ticketType},
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(existing) > 0 {
			return nil, apperrors.NewConflict(msgDuplicateAddressChange, map[string]any{
				"company_id": input.CompanyID,
				"ticket_id":  existing[0].ID,
			})
		}
	}

	rule, ok := domain.RuleFor(ticketType)
	if !ok {
		return nil, apperrors.NewValidationError("unsupported ticket type", map[string]any{"type": input.Type})
	}

	assignee, err := s.assignment.ResolveAssignee(ctx, ticketType, rule, input.CompanyID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Type:       ticketType,
		Status:     domain.TicketStatusOpen,
		Category:   rule.Category,
		CompanyID:  input.CompanyID,
		AssigneeID: assignee.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticketType == domain.TicketTypeStrikeOff {
		resolved, err := s.tickets.ResolveOpenByCompany(ctx, input.CompanyID, ticket.ID)
		if err != nil {
			if delErr := s.tickets.Delete(ctx, ticket.ID); delErr != nil {
				s.logger.Error("rollback of strike-off ticket failed",
					zap.Int64("ticket_id", ticket.ID),
					zap.Error(delErr))
			}
			return nil, apperrors.MapError(err)
		}
		s.logger.Info("strike-off resolved open tickets",
			zap.Int64("company_id", input.CompanyID),
			zap.Int64("ticket_id", ticket.ID),
			zap.Int64("resolved", resolved))
		s.publishEvent(ctx, events.Event{
			Type:    events.EventTicketsResolved,
			Subject: subjectCompany(input.CompanyID),
			Payload: events.TicketsResolvedPayload{
				CompanyID:     input.CompanyID,
				TriggerTicket: ticket.ID,
				Resolved:      resolved,
			},
		})
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketCreated,
		Subject: subjectCompany(input.CompanyID),
		Payload: events.TicketCreatedPayload{
			TicketID:   ticket.ID,
			Type:       ticket.Type,
			Category:   ticket.Category,
			CompanyID:  ticket.CompanyID,
			AssigneeID: ticket.AssigneeID,
		},
	})
	return ticket, nil
}

// ListTickets returns every ticket with its company and assignee, ordered by id.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithRelations(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
