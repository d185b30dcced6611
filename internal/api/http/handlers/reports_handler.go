package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerdesk/backoffice/internal/api/dto"
	"github.com/ledgerdesk/backoffice/internal/service"
)

// ReportsHandler exposes the report pipelines.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// States GET /api/v1/reports.
func (h *ReportsHandler) States(c *fiber.Ctx) error {
	return c.JSON(dto.NewReportStatesResponse(h.service.States()))
}

// Generate POST /api/v1/reports. Pipelines keep running after the response.
func (h *ReportsHandler) Generate(c *fiber.Ctx) error {
	h.service.StartAll(c.UserContext())
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "finished"})
}
