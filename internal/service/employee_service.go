package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/events"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// Performance windows accepted by the performance view.
const (
	MinPerformanceDays     = 1
	MaxPerformanceDays     = 365
	DefaultPerformanceDays = 30
)

const (
	detailTicketLimit = 50
	detailLogLimit    = 20
)

// EmployeeService manages the staff roster and its derived views. Deleting
// an employee is blocked while they hold active tickets.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	tickets    repository.TicketRepository
	timeLogs   repository.TimeLogRepository
	workloads  repository.WorkloadRepository
	summaries  repository.SummaryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EmployeeDependencies bundles collaborators.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	TicketRepo   repository.TicketRepository
	TimeLogRepo  repository.TimeLogRepository
	WorkloadRepo repository.WorkloadRepository
	SummaryRepo  repository.SummaryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewEmployeeService creates the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		tickets:    deps.TicketRepo,
		timeLogs:   deps.TimeLogRepo,
		workloads:  deps.WorkloadRepo,
		summaries:  deps.SummaryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// EmployeeCreateInput carries the fields accepted on creation.
type EmployeeCreateInput struct {
	Name            string
	Email           string
	Position        string
	Department      *string
	Phone           *string
	Specializations []string
	AvatarURL       *string
	Active          *bool
}

// Create persists an employee. Email is unique per deployment; duplicates
// map to a conflict through the unique constraint.
func (s *EmployeeService) Create(ctx context.Context, ownerID string, input EmployeeCreateInput) (*domain.Employee, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	employee := &domain.Employee{
		OwnerID:         ownerID,
		Name:            name,
		Email:           input.Email,
		Position:        input.Position,
		Department:      input.Department,
		Phone:           input.Phone,
		Specializations: input.Specializations,
		AvatarURL:       input.AvatarURL,
		Active:          active,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, ownerID, employeeID string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, ownerID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// List returns employees matching the filter, newest first.
func (s *EmployeeService) List(ctx context.Context, ownerID string, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	rows, err := s.employees.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// Update applies a partial update.
func (s *EmployeeService) Update(ctx context.Context, ownerID, employeeID string, patch repository.EmployeePatch) (*domain.Employee, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperrors.NewValidationError("name must not be empty", nil)
	}
	employee, err := s.employees.Patch(ctx, ownerID, employeeID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// Delete removes an employee. It is rejected while the employee still holds
// tickets that are not closed; reassign or close those first.
func (s *EmployeeService) Delete(ctx context.Context, ownerID, employeeID string) error {
	if _, err := s.employees.GetByID(ctx, ownerID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return apperrors.MapError(err)
	}

	active, err := s.tickets.CountActiveByAssignee(ctx, employeeID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if active > 0 {
		return apperrors.NewConflict(
			fmt.Sprintf("cannot delete employee with %d active assigned ticket(s)", active),
			map[string]any{"active_tickets": active},
		)
	}

	if err := s.employees.Delete(ctx, ownerID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventEmployeeDeleted,
			OwnerID:   ownerID,
			Timestamp: s.now().UTC(),
			Payload:   events.EmployeeDeletedPayload{EmployeeID: employeeID},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish event", zap.Error(err), zap.String("event_type", string(event.Type)))
		}
	}
	return nil
}

// EmployeeDetail is an employee with their current tickets and latest logs.
type EmployeeDetail struct {
	Employee        *domain.Employee
	AssignedTickets []domain.Ticket
	RecentTimeLogs  []domain.TimeLog
}

// Detail loads an employee together with assigned tickets and recent logs.
func (s *EmployeeService) Detail(ctx context.Context, ownerID, employeeID string) (*EmployeeDetail, error) {
	employee, err := s.Get(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.tickets.ListByAssignee(ctx, ownerID, employeeID, detailTicketLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	logs, err := s.timeLogs.List(ctx, ownerID, repository.TimeLogFilter{
		EmployeeID: &employeeID,
		Limit:      detailLogLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &EmployeeDetail{
		Employee:        employee,
		AssignedTickets: tickets,
		RecentTimeLogs:  logs,
	}, nil
}

// EmployeeTicketList pairs an employee with their assigned ticket summaries.
type EmployeeTicketList struct {
	Employee *domain.Employee
	Tickets  []domain.TicketSummary
}

// AssignedTickets lists every ticket assigned to the employee, newest first,
// optionally narrowed to one status.
func (s *EmployeeService) AssignedTickets(ctx context.Context, ownerID, employeeID string, status *domain.TicketStatus) (*EmployeeTicketList, error) {
	employee, err := s.Get(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}
	if status != nil && !domain.ValidTicketStatus(*status) {
		return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": string(*status)})
	}
	tickets, err := s.summaries.ListByEmployee(ctx, ownerID, employeeID, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &EmployeeTicketList{Employee: employee, Tickets: tickets}, nil
}

// PerformanceReport summarizes one employee's output over a trailing window.
type PerformanceReport struct {
	Employee *domain.Employee
	Period   PeriodReport
	Metrics  struct {
		TotalHours              float64 `json:"total_hours"`
		BillableHours           float64 `json:"billable_hours"`
		TicketsAssigned         int     `json:"tickets_assigned"`
		TicketsCompleted        int     `json:"tickets_completed"`
		CompletionRate          float64 `json:"completion_rate"`
		AvgCompletionHours      float64 `json:"avg_completion_hours"`
		HoursPerCompletedTicket float64 `json:"hours_per_completed_ticket"`
	}
}

// Performance computes throughput metrics over the trailing days window.
func (s *EmployeeService) Performance(ctx context.Context, ownerID, employeeID string, days int) (*PerformanceReport, error) {
	if days == 0 {
		days = DefaultPerformanceDays
	}
	if days < MinPerformanceDays || days > MaxPerformanceDays {
		return nil, apperrors.NewValidationError("days must be between 1 and 365", map[string]any{"days": days})
	}

	employee, err := s.Get(ctx, ownerID, employeeID)
	if err != nil {
		return nil, err
	}

	window := domain.TrailingWindow(days, s.now())
	logs, err := s.timeLogs.ListByEmployeeWindow(ctx, ownerID, employeeID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assigned, err := s.tickets.ListAssignedSince(ctx, ownerID, employeeID, window.Start)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	completed, err := s.tickets.ListCompletedWindow(ctx, ownerID, employeeID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	report := &PerformanceReport{Employee: employee, Period: periodReport(window)}

	var totalHours, billableHours float64
	for _, log := range logs {
		totalHours += log.HoursWorked
		if log.Billable {
			billableHours += log.HoursWorked
		}
	}
	var completionTotal float64
	var completionCount int
	for _, ticket := range completed {
		if ticket.AssignedAt == nil || ticket.CompletedAt == nil {
			continue
		}
		completionTotal += ticket.CompletedAt.Sub(*ticket.AssignedAt).Hours()
		completionCount++
	}

	report.Metrics.TotalHours = round2(totalHours)
	report.Metrics.BillableHours = round2(billableHours)
	report.Metrics.TicketsAssigned = len(assigned)
	report.Metrics.TicketsCompleted = len(completed)
	if len(assigned) > 0 {
		report.Metrics.CompletionRate = round2(float64(len(completed)) / float64(len(assigned)) * 100)
	}
	if completionCount > 0 {
		report.Metrics.AvgCompletionHours = round2(completionTotal / float64(completionCount))
	}
	if len(completed) > 0 {
		report.Metrics.HoursPerCompletedTicket = round2(totalHours / float64(len(completed)))
	}
	return report, nil
}

// SpecializationEntry counts employees carrying one skill tag.
type SpecializationEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Specializations lists the distinct skill tags across the roster with the
// number of employees holding each, most common first. Tags are folded
// case-insensitively, keeping the first spelling seen.
func (s *EmployeeService) Specializations(ctx context.Context, ownerID string) ([]SpecializationEntry, error) {
	employees, err := s.employees.List(ctx, ownerID, repository.EmployeeFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	tags := newGroupAccumulator[SpecializationEntry]()
	for _, emp := range employees {
		for _, spec := range emp.Specializations {
			name := strings.TrimSpace(spec)
			if name == "" {
				continue
			}
			entry := tags.Get(strings.ToLower(name), func() *SpecializationEntry {
				return &SpecializationEntry{Name: name}
			})
			entry.Count++
		}
	}
	tags.SortKeys(func(a, b *SpecializationEntry) bool { return a.Count > b.Count })
	return tags.Values(), nil
}

// ListBySpecialization returns employees holding the given skill tag.
func (s *EmployeeService) ListBySpecialization(ctx context.Context, ownerID, specialization string) ([]domain.Employee, error) {
	if strings.TrimSpace(specialization) == "" {
		return nil, apperrors.NewValidationError("specialization is required", nil)
	}
	employees, err := s.employees.List(ctx, ownerID, repository.EmployeeFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	matched := make([]domain.Employee, 0)
	for _, emp := range employees {
		if emp.HasSpecialization(specialization) {
			matched = append(matched, emp)
		}
	}
	return matched, nil
}

// DepartmentStatEntry summarizes one department's staffing and load.
type DepartmentStatEntry struct {
	Department       string  `json:"department"`
	Employees        int     `json:"employees"`
	ActiveEmployees  int     `json:"active_employees"`
	ActiveTickets    int     `json:"active_tickets"`
	TotalHoursLogged float64 `json:"total_hours_logged"`
}

// Departments lists the distinct department names across the roster,
// alphabetically. Employees without a department contribute nothing.
func (s *EmployeeService) Departments(ctx context.Context, ownerID string) ([]string, error) {
	employees, err := s.employees.List(ctx, ownerID, repository.EmployeeFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	seen := make(map[string]struct{})
	departments := make([]string, 0)
	for _, emp := range employees {
		if emp.Department == nil {
			continue
		}
		name := strings.TrimSpace(*emp.Department)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		departments = append(departments, name)
	}
	sort.Strings(departments)
	return departments, nil
}

// DepartmentStats groups the roster by department with ticket and hour
// totals from the workload view. Employees without a department are grouped
// under "Unassigned". Departments sort by headcount.
func (s *EmployeeService) DepartmentStats(ctx context.Context, ownerID string) ([]DepartmentStatEntry, error) {
	snapshots, err := s.workloads.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	departments := newGroupAccumulator[DepartmentStatEntry]()
	for _, snap := range snapshots {
		dept := "Unassigned"
		if snap.Department != nil && *snap.Department != "" {
			dept = *snap.Department
		}
		entry := departments.Get(dept, func() *DepartmentStatEntry {
			return &DepartmentStatEntry{Department: dept}
		})
		entry.Employees++
		if snap.Active {
			entry.ActiveEmployees++
		}
		entry.ActiveTickets += snap.ActiveTickets
		entry.TotalHoursLogged += snap.TotalHoursLogged
	}
	departments.SortKeys(func(a, b *DepartmentStatEntry) bool { return a.Employees > b.Employees })
	stats := departments.Values()
	for i := range stats {
		stats[i].TotalHoursLogged = round2(stats[i].TotalHoursLogged)
	}
	return stats, nil
}
