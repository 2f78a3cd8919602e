package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/api/dto"
	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	"github.com/loga115/ticketflow/internal/service"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// EmployeesHandler manages the staff roster endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
	workloads *service.WorkloadService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService, workloads *service.WorkloadService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees, workloads: workloads}
}

// Create POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.employees.Create(c.Context(), identity.OwnerID, service.EmployeeCreateInput{
		Name:            req.Name,
		Email:           req.Email,
		Position:        req.Position,
		Department:      req.Department,
		Phone:           req.Phone,
		Specializations: req.Specializations,
		AvatarURL:       req.AvatarURL,
		Active:          req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// List GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	active, err := parseBoolQuery(c, "is_active")
	if err != nil {
		return err
	}
	filter := repository.EmployeeFilter{
		Department: optionalStringQuery(c, "department"),
		Active:     active,
		Search:     optionalStringQuery(c, "search"),
	}

	rows, err := h.employees.List(c.Context(), identity.OwnerID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewEmployeeResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	detail, err := h.employees.Detail(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeDetailResponse(detail)})
}

// Update PATCH /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.employees.Update(c.Context(), identity.OwnerID, c.Params("id"), repository.EmployeePatch{
		Name:            req.Name,
		Email:           req.Email,
		Position:        req.Position,
		Department:      req.Department,
		Phone:           req.Phone,
		Specializations: req.Specializations,
		AvatarURL:       req.AvatarURL,
		Active:          req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// Delete DELETE /employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.Context(), identity.OwnerID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Workload GET /employees/:id/workload.
func (h *EmployeesHandler) Workload(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	snapshot, err := h.workloads.GetSnapshot(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkloadResponse(snapshot)})
}

// Workloads GET /employees/workloads.
func (h *EmployeesHandler) Workloads(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	snapshots, err := h.workloads.ListSnapshots(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	items := make([]dto.WorkloadResponse, 0, len(snapshots))
	for i := range snapshots {
		items = append(items, dto.NewWorkloadResponse(&snapshots[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Performance GET /employees/:id/performance.
func (h *EmployeesHandler) Performance(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	days, err := parseIntQuery(c, "days", 0)
	if err != nil {
		return err
	}
	report, err := h.employees.Performance(c.Context(), identity.OwnerID, c.Params("id"), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPerformanceResponse(report)})
}

// Specializations GET /employees/specializations.
func (h *EmployeesHandler) Specializations(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	entries, err := h.employees.Specializations(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// BySpecialization GET /employees/by-specialization/:name.
func (h *EmployeesHandler) BySpecialization(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	rows, err := h.employees.ListBySpecialization(c.Context(), identity.OwnerID, c.Params("name"))
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewEmployeeResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Tickets GET /employees/:id/tickets.
func (h *EmployeesHandler) Tickets(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var status *domain.TicketStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.TicketStatus(raw)
		status = &s
	}
	list, err := h.employees.AssignedTickets(c.Context(), identity.OwnerID, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeTicketListResponse(list)})
}

// Departments GET /employees/departments/list.
func (h *EmployeesHandler) Departments(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	departments, err := h.employees.Departments(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departments})
}

// DepartmentStats GET /employees/departments/stats.
func (h *EmployeesHandler) DepartmentStats(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.employees.DepartmentStats(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
