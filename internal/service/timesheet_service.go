package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

const dateLayout = "2006-01-02"

// Trend windows accepted by the daily trend view.
const (
	MinTrendDays     = 7
	MaxTrendDays     = 365
	DefaultTrendDays = 30
)

// TimesheetService aggregates time-log rows into review, summary and trend
// views over a period window. All aggregation happens in memory per request.
type TimesheetService struct {
	timeLogs  repository.TimeLogRepository
	tickets   repository.TicketRepository
	employees repository.EmployeeRepository
	summaries repository.SummaryRepository
	now       func() time.Time
}

// TimesheetDependencies bundles collaborators.
type TimesheetDependencies struct {
	TimeLogRepo  repository.TimeLogRepository
	TicketRepo   repository.TicketRepository
	EmployeeRepo repository.EmployeeRepository
	SummaryRepo  repository.SummaryRepository
	Now          func() time.Time
}

// NewTimesheetService creates the service.
func NewTimesheetService(deps TimesheetDependencies) *TimesheetService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TimesheetService{
		timeLogs:  deps.TimeLogRepo,
		tickets:   deps.TicketRepo,
		employees: deps.EmployeeRepo,
		summaries: deps.SummaryRepo,
		now:       now,
	}
}

// PeriodReport describes the window an aggregation covered.
type PeriodReport struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// DailyEntry is one calendar day of logged time.
type DailyEntry struct {
	Date          string  `json:"date"`
	TotalHours    float64 `json:"total_hours"`
	BillableHours float64 `json:"billable_hours"`
	LogCount      int     `json:"log_count"`
}

// TicketTimeEntry groups an employee's logs by ticket.
type TicketTimeEntry struct {
	TicketID   string  `json:"ticket_id"`
	TotalHours float64 `json:"total_hours"`
	LogCount   int     `json:"log_count"`
}

// CompletionEntry describes one ticket completed inside the window.
type CompletionEntry struct {
	TicketNumber    string  `json:"ticket_number"`
	Title           string  `json:"title"`
	HoursToComplete float64 `json:"hours_to_complete"`
}

// EmployeeTimeReview is the per-employee analytics view.
type EmployeeTimeReview struct {
	Employee    *domain.Employee
	Period      PeriodReport
	TimeSummary struct {
		TotalHours     float64 `json:"total_hours"`
		BillableHours  float64 `json:"billable_hours"`
		NonBillable    float64 `json:"non_billable_hours"`
		AvgHoursPerDay float64 `json:"avg_hours_per_day"`
		TotalLogs      int     `json:"total_logs"`
	}
	TicketMetrics struct {
		Assigned           int     `json:"assigned"`
		Completed          int     `json:"completed"`
		CompletionRate     float64 `json:"completion_rate"`
		AvgCompletionHours float64 `json:"avg_completion_hours"`
		TicketsWithTime    int     `json:"tickets_with_time"`
	}
	TimeByTicket     []TicketTimeEntry
	CompletedTickets []CompletionEntry
	DailyBreakdown   []DailyEntry
	RecentLogs       []domain.TimeLog
}

// ReviewEmployee aggregates one employee's logs and ticket movement over the
// window. The daily breakdown is zero-filled across every day of the window.
func (s *TimesheetService) ReviewEmployee(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) (*EmployeeTimeReview, error) {
	if !window.Valid() {
		return nil, apperrors.NewValidationError("period start must not be after end", nil)
	}

	employee, err := s.employees.GetByID(ctx, ownerID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	logs, err := s.timeLogs.ListByEmployeeWindow(ctx, ownerID, employeeID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assigned, err := s.tickets.ListCreatedWindow(ctx, ownerID, employeeID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	completed, err := s.tickets.ListCompletedWindow(ctx, ownerID, employeeID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	review := &EmployeeTimeReview{
		Employee: employee,
		Period:   periodReport(window),
	}

	var totalHours, billableHours float64
	for _, log := range logs {
		totalHours += log.HoursWorked
		if log.Billable {
			billableHours += log.HoursWorked
		}
	}
	review.TimeSummary.TotalHours = round2(totalHours)
	review.TimeSummary.BillableHours = round2(billableHours)
	review.TimeSummary.NonBillable = round2(totalHours - billableHours)
	review.TimeSummary.AvgHoursPerDay = round2(totalHours / float64(window.Days()))
	review.TimeSummary.TotalLogs = len(logs)

	byTicket := newGroupAccumulator[TicketTimeEntry]()
	for _, log := range logs {
		if log.TicketID == nil {
			continue
		}
		entry := byTicket.Get(*log.TicketID, func() *TicketTimeEntry {
			return &TicketTimeEntry{TicketID: *log.TicketID}
		})
		entry.TotalHours += log.HoursWorked
		entry.LogCount++
	}
	byTicket.SortKeys(func(a, b *TicketTimeEntry) bool { return a.TotalHours > b.TotalHours })
	review.TimeByTicket = byTicket.Values()
	for i := range review.TimeByTicket {
		review.TimeByTicket[i].TotalHours = round2(review.TimeByTicket[i].TotalHours)
	}

	var completionTotal float64
	var completionCount int
	for _, ticket := range completed {
		if ticket.AssignedAt == nil || ticket.CompletedAt == nil {
			continue
		}
		hours := ticket.CompletedAt.Sub(*ticket.AssignedAt).Hours()
		completionTotal += hours
		completionCount++
		review.CompletedTickets = append(review.CompletedTickets, CompletionEntry{
			TicketNumber:    ticket.TicketNumber,
			Title:           ticket.Title,
			HoursToComplete: round2(hours),
		})
	}

	review.TicketMetrics.Assigned = len(assigned)
	review.TicketMetrics.Completed = len(completed)
	if len(assigned) > 0 {
		review.TicketMetrics.CompletionRate = round2(float64(len(completed)) / float64(len(assigned)) * 100)
	}
	if completionCount > 0 {
		review.TicketMetrics.AvgCompletionHours = round2(completionTotal / float64(completionCount))
	}
	review.TicketMetrics.TicketsWithTime = byTicket.Len()

	review.DailyBreakdown = buildDailySeries(window, logs)

	review.RecentLogs = logs
	if len(review.RecentLogs) > 20 {
		review.RecentLogs = review.RecentLogs[:20]
	}
	return review, nil
}

// EmployeeHoursEntry groups logged hours by employee.
type EmployeeHoursEntry struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Department   *string `json:"department,omitempty"`
	Hours        float64 `json:"hours"`
	LogCount     int     `json:"log_count"`
}

// TicketTimeReview compares logged against estimated hours for one ticket.
type TicketTimeReview struct {
	Ticket      *domain.TicketSummary
	TimeSummary struct {
		TotalHoursLogged   float64 `json:"total_hours_logged"`
		EstimatedHours     float64 `json:"estimated_hours"`
		Variance           float64 `json:"variance"`
		VariancePercentage float64 `json:"variance_percentage"`
		TotalLogs          int     `json:"total_logs"`
	}
	ByEmployee []EmployeeHoursEntry
	TimeLogs   []domain.TimeLog
}

// ReviewTicket aggregates every log recorded against a ticket.
func (s *TimesheetService) ReviewTicket(ctx context.Context, ownerID, ticketID string) (*TicketTimeReview, error) {
	summary, err := s.summaries.GetByID(ctx, ownerID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	logs, err := s.timeLogs.ListByTicket(ctx, ownerID, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	names, err := s.employeeNames(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	review := &TicketTimeReview{Ticket: summary, TimeLogs: logs}

	var totalHours float64
	for _, log := range logs {
		totalHours += log.HoursWorked
	}
	estimated := 0.0
	if summary.EstimatedHours != nil {
		estimated = *summary.EstimatedHours
	}
	variance := totalHours - estimated

	review.TimeSummary.TotalHoursLogged = round2(totalHours)
	review.TimeSummary.EstimatedHours = round2(estimated)
	review.TimeSummary.Variance = round2(variance)
	if estimated > 0 {
		review.TimeSummary.VariancePercentage = round2(variance / estimated * 100)
	}
	review.TimeSummary.TotalLogs = len(logs)

	byEmployee := newGroupAccumulator[EmployeeHoursEntry]()
	for _, log := range logs {
		entry := byEmployee.Get(log.EmployeeID, func() *EmployeeHoursEntry {
			e := &EmployeeHoursEntry{EmployeeID: log.EmployeeID}
			if emp, ok := names[log.EmployeeID]; ok {
				e.EmployeeName = emp.Name
				e.Department = emp.Department
			}
			return e
		})
		entry.Hours += log.HoursWorked
		entry.LogCount++
	}
	byEmployee.SortKeys(func(a, b *EmployeeHoursEntry) bool { return a.Hours > b.Hours })
	review.ByEmployee = byEmployee.Values()
	for i := range review.ByEmployee {
		review.ByEmployee[i].Hours = round2(review.ByEmployee[i].Hours)
	}
	return review, nil
}

// DepartmentHoursEntry groups logged hours by department.
type DepartmentHoursEntry struct {
	Department string  `json:"department"`
	Hours      float64 `json:"hours"`
}

// TimeStatsSummary is the tenant-wide roll-up for a window.
type TimeStatsSummary struct {
	Period  PeriodReport
	Summary struct {
		TotalHours         float64 `json:"total_hours"`
		BillableHours      float64 `json:"billable_hours"`
		NonBillable        float64 `json:"non_billable_hours"`
		BillablePercentage float64 `json:"billable_percentage"`
		TotalLogs          int     `json:"total_logs"`
	}
	ByEmployee   []EmployeeHoursEntry
	ByDepartment []DepartmentHoursEntry
}

// Summarize rolls up every log in the window across employees and
// departments. Logs whose employee has no department land in "Unassigned".
func (s *TimesheetService) Summarize(ctx context.Context, ownerID string, window domain.PeriodWindow) (*TimeStatsSummary, error) {
	if !window.Valid() {
		return nil, apperrors.NewValidationError("period start must not be after end", nil)
	}

	logs, err := s.timeLogs.ListByWindow(ctx, ownerID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names, err := s.employeeNames(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &TimeStatsSummary{Period: periodReport(window)}

	var totalHours, billableHours float64
	for _, log := range logs {
		totalHours += log.HoursWorked
		if log.Billable {
			billableHours += log.HoursWorked
		}
	}
	stats.Summary.TotalHours = round2(totalHours)
	stats.Summary.BillableHours = round2(billableHours)
	stats.Summary.NonBillable = round2(totalHours - billableHours)
	if totalHours > 0 {
		stats.Summary.BillablePercentage = round2(billableHours / totalHours * 100)
	}
	stats.Summary.TotalLogs = len(logs)

	byEmployee := newGroupAccumulator[EmployeeHoursEntry]()
	byDepartment := newGroupAccumulator[DepartmentHoursEntry]()
	for _, log := range logs {
		entry := byEmployee.Get(log.EmployeeID, func() *EmployeeHoursEntry {
			e := &EmployeeHoursEntry{EmployeeID: log.EmployeeID, EmployeeName: "Unknown"}
			if emp, ok := names[log.EmployeeID]; ok {
				e.EmployeeName = emp.Name
				e.Department = emp.Department
			}
			return e
		})
		entry.Hours += log.HoursWorked
		entry.LogCount++

		dept := "Unassigned"
		if emp, ok := names[log.EmployeeID]; ok && emp.Department != nil && *emp.Department != "" {
			dept = *emp.Department
		}
		deptEntry := byDepartment.Get(dept, func() *DepartmentHoursEntry {
			return &DepartmentHoursEntry{Department: dept}
		})
		deptEntry.Hours += log.HoursWorked
	}

	byEmployee.SortKeys(func(a, b *EmployeeHoursEntry) bool { return a.Hours > b.Hours })
	stats.ByEmployee = byEmployee.Values()
	for i := range stats.ByEmployee {
		stats.ByEmployee[i].Hours = round2(stats.ByEmployee[i].Hours)
	}

	byDepartment.SortKeys(func(a, b *DepartmentHoursEntry) bool { return a.Hours > b.Hours })
	stats.ByDepartment = byDepartment.Values()
	for i := range stats.ByDepartment {
		stats.ByDepartment[i].Hours = round2(stats.ByDepartment[i].Hours)
	}
	return stats, nil
}

// DailyTrendReport is the zero-filled day-by-day series.
type DailyTrendReport struct {
	Period      PeriodReport
	DailyTrends []DailyEntry
}

// Trends aggregates per-day totals for a trailing window ending today. The
// series always holds exactly days entries, zero-filled where nothing was
// logged, in ascending date order.
func (s *TimesheetService) Trends(ctx context.Context, ownerID string, days int) (*DailyTrendReport, error) {
	if days == 0 {
		days = DefaultTrendDays
	}
	if days < MinTrendDays || days > MaxTrendDays {
		return nil, apperrors.NewValidationError("days must be between 7 and 365", map[string]any{"days": days})
	}

	window := domain.TrailingWindow(days, s.now())
	logs, err := s.timeLogs.ListByWindow(ctx, ownerID, window)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &DailyTrendReport{
		Period:      periodReport(window),
		DailyTrends: buildDailySeries(window, logs),
	}, nil
}

// buildDailySeries produces one entry per calendar day of the window in
// ascending order, zero-filled for days without logs.
func buildDailySeries(window domain.PeriodWindow, logs []domain.TimeLog) []DailyEntry {
	daily := newGroupAccumulator[DailyEntry]()
	window.EachDay(func(day time.Time) {
		key := day.Format(dateLayout)
		daily.Get(key, func() *DailyEntry { return &DailyEntry{Date: key} })
	})
	for _, log := range logs {
		key := log.WorkDate.Format(dateLayout)
		entry, ok := daily.values[key]
		if !ok {
			continue
		}
		entry.TotalHours += log.HoursWorked
		if log.Billable {
			entry.BillableHours += log.HoursWorked
		}
		entry.LogCount++
	}
	series := daily.Values()
	for i := range series {
		series[i].TotalHours = round2(series[i].TotalHours)
		series[i].BillableHours = round2(series[i].BillableHours)
	}
	return series
}

func (s *TimesheetService) employeeNames(ctx context.Context, ownerID string) (map[string]domain.Employee, error) {
	employees, err := s.employees.List(ctx, ownerID, repository.EmployeeFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names := make(map[string]domain.Employee, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp
	}
	return names, nil
}

func periodReport(window domain.PeriodWindow) PeriodReport {
	return PeriodReport{
		StartDate: window.Start.Format(dateLayout),
		EndDate:   window.End.Format(dateLayout),
		Days:      window.Days(),
	}
}
