package dto

import (
	"github.com/loga115/ticketflow/internal/service"
)

// EmployeeTimeReviewResponse is the per-employee analytics view.
type EmployeeTimeReviewResponse struct {
	Employee    EmployeeResponse     `json:"employee"`
	Period      service.PeriodReport `json:"period"`
	TimeSummary struct {
		TotalHours     float64 `json:"total_hours"`
		BillableHours  float64 `json:"billable_hours"`
		NonBillable    float64 `json:"non_billable_hours"`
		AvgHoursPerDay float64 `json:"avg_hours_per_day"`
		TotalLogs      int     `json:"total_logs"`
	} `json:"time_summary"`
	TicketMetrics struct {
		Assigned           int     `json:"assigned"`
		Completed          int     `json:"completed"`
		CompletionRate     float64 `json:"completion_rate"`
		AvgCompletionHours float64 `json:"avg_completion_hours"`
		TicketsWithTime    int     `json:"tickets_with_time"`
	} `json:"ticket_metrics"`
	TimeByTicket     []service.TicketTimeEntry `json:"time_by_ticket"`
	CompletedTickets []service.CompletionEntry `json:"completed_tickets"`
	DailyBreakdown   []service.DailyEntry      `json:"daily_breakdown"`
	RecentLogs       []TimeLogResponse         `json:"recent_logs"`
}

// NewEmployeeTimeReviewResponse maps a review.
func NewEmployeeTimeReviewResponse(r *service.EmployeeTimeReview) EmployeeTimeReviewResponse {
	resp := EmployeeTimeReviewResponse{
		Employee:         NewEmployeeResponse(r.Employee),
		Period:           r.Period,
		TimeByTicket:     r.TimeByTicket,
		CompletedTickets: r.CompletedTickets,
		DailyBreakdown:   r.DailyBreakdown,
		RecentLogs:       make([]TimeLogResponse, 0, len(r.RecentLogs)),
	}
	resp.TimeSummary.TotalHours = r.TimeSummary.TotalHours
	resp.TimeSummary.BillableHours = r.TimeSummary.BillableHours
	resp.TimeSummary.NonBillable = r.TimeSummary.NonBillable
	resp.TimeSummary.AvgHoursPerDay = r.TimeSummary.AvgHoursPerDay
	resp.TimeSummary.TotalLogs = r.TimeSummary.TotalLogs
	resp.TicketMetrics.Assigned = r.TicketMetrics.Assigned
	resp.TicketMetrics.Completed = r.TicketMetrics.Completed
	resp.TicketMetrics.CompletionRate = r.TicketMetrics.CompletionRate
	resp.TicketMetrics.AvgCompletionHours = r.TicketMetrics.AvgCompletionHours
	resp.TicketMetrics.TicketsWithTime = r.TicketMetrics.TicketsWithTime
	for i := range r.RecentLogs {
		resp.RecentLogs = append(resp.RecentLogs, NewTimeLogResponse(&r.RecentLogs[i]))
	}
	return resp
}

// TicketTimeReviewResponse compares logged against estimated hours.
type TicketTimeReviewResponse struct {
	Ticket      TicketSummaryResponse `json:"ticket"`
	TimeSummary struct {
		TotalHoursLogged   float64 `json:"total_hours_logged"`
		EstimatedHours     float64 `json:"estimated_hours"`
		Variance           float64 `json:"variance"`
		VariancePercentage float64 `json:"variance_percentage"`
		TotalLogs          int     `json:"total_logs"`
	} `json:"time_summary"`
	ByEmployee []service.EmployeeHoursEntry `json:"by_employee"`
	TimeLogs   []TimeLogResponse            `json:"time_logs"`
}

// NewTicketTimeReviewResponse maps a review.
func NewTicketTimeReviewResponse(r *service.TicketTimeReview) TicketTimeReviewResponse {
	resp := TicketTimeReviewResponse{
		Ticket:     NewTicketSummaryResponse(r.Ticket),
		ByEmployee: r.ByEmployee,
		TimeLogs:   make([]TimeLogResponse, 0, len(r.TimeLogs)),
	}
	resp.TimeSummary.TotalHoursLogged = r.TimeSummary.TotalHoursLogged
	resp.TimeSummary.EstimatedHours = r.TimeSummary.EstimatedHours
	resp.TimeSummary.Variance = r.TimeSummary.Variance
	resp.TimeSummary.VariancePercentage = r.TimeSummary.VariancePercentage
	resp.TimeSummary.TotalLogs = r.TimeSummary.TotalLogs
	for i := range r.TimeLogs {
		resp.TimeLogs = append(resp.TimeLogs, NewTimeLogResponse(&r.TimeLogs[i]))
	}
	return resp
}

// TimeStatsSummaryResponse is the tenant-wide roll-up.
type TimeStatsSummaryResponse struct {
	Period  service.PeriodReport `json:"period"`
	Summary struct {
		TotalHours         float64 `json:"total_hours"`
		BillableHours      float64 `json:"billable_hours"`
		NonBillable        float64 `json:"non_billable_hours"`
		BillablePercentage float64 `json:"billable_percentage"`
		TotalLogs          int     `json:"total_logs"`
	} `json:"summary"`
	ByEmployee   []service.EmployeeHoursEntry   `json:"by_employee"`
	ByDepartment []service.DepartmentHoursEntry `json:"by_department"`
}

// NewTimeStatsSummaryResponse maps a roll-up.
func NewTimeStatsSummaryResponse(s *service.TimeStatsSummary) TimeStatsSummaryResponse {
	resp := TimeStatsSummaryResponse{
		Period:       s.Period,
		ByEmployee:   s.ByEmployee,
		ByDepartment: s.ByDepartment,
	}
	resp.Summary.TotalHours = s.Summary.TotalHours
	resp.Summary.BillableHours = s.Summary.BillableHours
	resp.Summary.NonBillable = s.Summary.NonBillable
	resp.Summary.BillablePercentage = s.Summary.BillablePercentage
	resp.Summary.TotalLogs = s.Summary.TotalLogs
	return resp
}

// DailyTrendResponse is the zero-filled day-by-day series.
type DailyTrendResponse struct {
	Period      service.PeriodReport `json:"period"`
	DailyTrends []service.DailyEntry `json:"daily_trends"`
}

// NewDailyTrendResponse maps a trend report.
func NewDailyTrendResponse(r *service.DailyTrendReport) DailyTrendResponse {
	return DailyTrendResponse{Period: r.Period, DailyTrends: r.DailyTrends}
}
