package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerdesk/backoffice/internal/api/dto"
	"github.com/ledgerdesk/backoffice/internal/service"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/v1/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Type) == "" {
		return apperrors.NewValidationError("type is required", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Type:      req.Type,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// ListTickets GET /api/v1/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketListItem, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketListItem(&tickets[i]))
	}
	return c.JSON(items)
}
