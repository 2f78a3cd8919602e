package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/api/dto"
	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	"github.com/loga115/ticketflow/internal/service"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets         *service.TicketService
	recommendations *service.RecommendationService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, recommendations *service.RecommendationService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, recommendations: recommendations}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		AssigneeID:     req.AssigneeID,
		ReportedBy:     req.ReportedBy,
		ReporterEmail:  req.ReporterEmail,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}

	ticket, err := h.tickets.Create(c.Context(), identity.OwnerID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	filter, err := parseSummaryQuery(c)
	if err != nil {
		return err
	}

	rows, err := h.tickets.List(c.Context(), identity.OwnerID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummaryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewTicketSummaryResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	summary, err := h.tickets.Get(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaryResponse(summary)})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := repository.TicketPatch{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		ReportedBy:     req.ReportedBy,
		ReporterEmail:  req.ReporterEmail,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		patch.Priority = &priority
	}

	ticket, err := h.tickets.Update(c.Context(), identity.OwnerID, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.tickets.Delete(c.Context(), identity.OwnerID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id is required", nil)
	}

	ticket, err := h.tickets.Assign(c.Context(), identity.OwnerID, c.Params("id"), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Unassign POST /tickets/:id/unassign.
func (h *TicketsHandler) Unassign(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Unassign(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Recommend GET /tickets/:id/recommend-employees.
func (h *TicketsHandler) Recommend(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	limit, err := parseIntQuery(c, "limit", service.DefaultRecommendationLimit)
	if err != nil {
		return err
	}

	report, err := h.recommendations.RecommendEmployees(c.Context(), identity.OwnerID, c.Params("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecommendationReportResponse(report)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.AddComment(c.Context(), identity.OwnerID, c.Params("id"), req.EmployeeID, req.Content, req.Internal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// ListComments GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	rows, err := h.tickets.ListComments(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewCommentResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateComment PATCH /tickets/:id/comments/:commentId.
func (h *TicketsHandler) UpdateComment(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.UpdateComment(c.Context(), identity.OwnerID, c.Params("id"), c.Params("commentId"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// DeleteComment DELETE /tickets/:id/comments/:commentId.
func (h *TicketsHandler) DeleteComment(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteComment(c.Context(), identity.OwnerID, c.Params("id"), c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	limit, err := parseIntQuery(c, "limit", 0)
	if err != nil {
		return err
	}

	rows, err := h.tickets.ListHistory(c.Context(), identity.OwnerID, c.Params("id"), limit)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewHistoryResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// StatsOverview GET /tickets/stats/overview.
func (h *TicketsHandler) StatsOverview(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	overview, err := h.tickets.StatsOverview(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// StatsByCategory GET /tickets/stats/by-category.
func (h *TicketsHandler) StatsByCategory(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.tickets.StatsByCategory(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func parseSummaryQuery(c *fiber.Ctx) (repository.SummaryFilter, error) {
	var filter repository.SummaryFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.TicketPriority(raw)
		filter.Priority = &priority
	}
	filter.AssigneeID = optionalStringQuery(c, "assigned_to")
	filter.CategoryID = optionalStringQuery(c, "category_id")
	filter.Search = optionalStringQuery(c, "search")

	limit, err := parseIntQuery(c, "limit", 0)
	if err != nil {
		return filter, err
	}
	offset, err := parseIntQuery(c, "offset", 0)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	filter.Offset = offset
	return filter, nil
}
