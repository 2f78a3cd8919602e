package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/api/dto"
	"github.com/loga115/ticketflow/internal/repository"
	"github.com/loga115/ticketflow/internal/service"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// TimeLogsHandler manages time log endpoints.
type TimeLogsHandler struct {
	timeLogs *service.TimeLogService
}

// NewTimeLogsHandler constructs handler.
func NewTimeLogsHandler(timeLogs *service.TimeLogService) *TimeLogsHandler {
	return &TimeLogsHandler{timeLogs: timeLogs}
}

// Create POST /time/logs.
func (h *TimeLogsHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTimeLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input, err := timeLogInput(req)
	if err != nil {
		return err
	}

	log, err := h.timeLogs.Create(c.Context(), identity.OwnerID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTimeLogResponse(log)})
}

// CreateBatch POST /time/logs/batch.
func (h *TimeLogsHandler) CreateBatch(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.BatchTimeLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	inputs := make([]service.TimeLogCreateInput, 0, len(req.Logs))
	for _, entry := range req.Logs {
		input, err := timeLogInput(entry)
		if err != nil {
			return err
		}
		inputs = append(inputs, input)
	}

	created, err := h.timeLogs.CreateBatch(c.Context(), identity.OwnerID, inputs)
	if err != nil {
		return err
	}
	items := make([]dto.TimeLogResponse, 0, len(created))
	for i := range created {
		items = append(items, dto.NewTimeLogResponse(&created[i]))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": items})
}

// List GET /time/logs.
func (h *TimeLogsHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}
	billable, err := parseBoolQuery(c, "is_billable")
	if err != nil {
		return err
	}
	limit, err := parseIntQuery(c, "limit", 0)
	if err != nil {
		return err
	}
	offset, err := parseIntQuery(c, "offset", 0)
	if err != nil {
		return err
	}

	filter := repository.TimeLogFilter{
		EmployeeID: optionalStringQuery(c, "employee_id"),
		TicketID:   optionalStringQuery(c, "ticket_id"),
		StartDate:  startDate,
		EndDate:    endDate,
		Billable:   billable,
		Limit:      limit,
		Offset:     offset,
	}
	rows, err := h.timeLogs.List(c.Context(), identity.OwnerID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TimeLogResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewTimeLogResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /time/logs/:id.
func (h *TimeLogsHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	log, err := h.timeLogs.Get(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimeLogResponse(log)})
}

// Update PATCH /time/logs/:id.
func (h *TimeLogsHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTimeLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := repository.TimeLogPatch{
		EmployeeID:  req.EmployeeID,
		TicketID:    req.TicketID,
		Description: req.Description,
		HoursWorked: req.HoursWorked,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Billable:    req.Billable,
	}
	if req.WorkDate != nil {
		workDate, err := time.Parse(queryDateLayout, *req.WorkDate)
		if err != nil {
			return apperrors.NewValidationError("work_date must use YYYY-MM-DD", map[string]any{"work_date": *req.WorkDate})
		}
		patch.WorkDate = &workDate
	}

	log, err := h.timeLogs.Update(c.Context(), identity.OwnerID, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTimeLogResponse(log)})
}

// Delete DELETE /time/logs/:id.
func (h *TimeLogsHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.timeLogs.Delete(c.Context(), identity.OwnerID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func timeLogInput(req dto.CreateTimeLogRequest) (service.TimeLogCreateInput, error) {
	var input service.TimeLogCreateInput
	if req.WorkDate == "" {
		return input, apperrors.NewValidationError("work_date is required", nil)
	}
	workDate, err := time.Parse(queryDateLayout, req.WorkDate)
	if err != nil {
		return input, apperrors.NewValidationError("work_date must use YYYY-MM-DD", map[string]any{"work_date": req.WorkDate})
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}
	return service.TimeLogCreateInput{
		EmployeeID:  req.EmployeeID,
		TicketID:    req.TicketID,
		Description: req.Description,
		HoursWorked: req.HoursWorked,
		WorkDate:    workDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Billable:    billable,
	}, nil
}
