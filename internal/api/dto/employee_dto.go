package dto

import (
	"time"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/service"
)

// CreateEmployeeRequest payload.
type CreateEmployeeRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Position        string   `json:"position"`
	Department      *string  `json:"department"`
	Phone           *string  `json:"phone"`
	Specializations []string `json:"specializations"`
	AvatarURL       *string  `json:"avatar_url"`
	Active          *bool    `json:"is_active"`
}

// UpdateEmployeeRequest payload. Absent fields are left untouched.
type UpdateEmployeeRequest struct {
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	Position        *string  `json:"position"`
	Department      *string  `json:"department"`
	Phone           *string  `json:"phone"`
	Specializations []string `json:"specializations"`
	AvatarURL       *string  `json:"avatar_url"`
	Active          *bool    `json:"is_active"`
}

// EmployeeResponse represents a staff member.
type EmployeeResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Position        string    `json:"position"`
	Department      *string   `json:"department"`
	Phone           *string   `json:"phone"`
	Specializations []string  `json:"specializations"`
	AvatarURL       *string   `json:"avatar_url"`
	Active          bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEmployeeResponse maps an employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		Email:           e.Email,
		Position:        e.Position,
		Department:      e.Department,
		Phone:           e.Phone,
		Specializations: e.Specializations,
		AvatarURL:       e.AvatarURL,
		Active:          e.Active,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// EmployeeDetailResponse adds current tickets and latest logs.
type EmployeeDetailResponse struct {
	EmployeeResponse
	AssignedTickets []TicketResponse  `json:"assigned_tickets"`
	RecentTimeLogs  []TimeLogResponse `json:"recent_time_logs"`
}

// NewEmployeeDetailResponse maps a detail aggregate.
func NewEmployeeDetailResponse(d *service.EmployeeDetail) EmployeeDetailResponse {
	resp := EmployeeDetailResponse{
		EmployeeResponse: NewEmployeeResponse(d.Employee),
		AssignedTickets:  make([]TicketResponse, 0, len(d.AssignedTickets)),
		RecentTimeLogs:   make([]TimeLogResponse, 0, len(d.RecentTimeLogs)),
	}
	for i := range d.AssignedTickets {
		resp.AssignedTickets = append(resp.AssignedTickets, NewTicketResponse(&d.AssignedTickets[i]))
	}
	for i := range d.RecentTimeLogs {
		resp.RecentTimeLogs = append(resp.RecentTimeLogs, NewTimeLogResponse(&d.RecentTimeLogs[i]))
	}
	return resp
}

// EmployeeTicketListResponse pairs an employee with their assigned tickets.
type EmployeeTicketListResponse struct {
	Employee EmployeeResponse        `json:"employee"`
	Tickets  []TicketSummaryResponse `json:"tickets"`
	Count    int                     `json:"count"`
}

// NewEmployeeTicketListResponse maps an assigned-ticket listing.
func NewEmployeeTicketListResponse(l *service.EmployeeTicketList) EmployeeTicketListResponse {
	resp := EmployeeTicketListResponse{
		Employee: NewEmployeeResponse(l.Employee),
		Tickets:  make([]TicketSummaryResponse, 0, len(l.Tickets)),
	}
	for i := range l.Tickets {
		resp.Tickets = append(resp.Tickets, NewTicketSummaryResponse(&l.Tickets[i]))
	}
	resp.Count = len(resp.Tickets)
	return resp
}

// WorkloadResponse is a point-in-time workload snapshot.
type WorkloadResponse struct {
	EmployeeID       string   `json:"employee_id"`
	Name             string   `json:"name"`
	Position         string   `json:"position"`
	Department       *string  `json:"department"`
	Specializations  []string `json:"specializations"`
	Active           bool     `json:"is_active"`
	ActiveTickets    int      `json:"active_tickets"`
	CompletedTickets int      `json:"completed_tickets"`
	TotalHoursLogged float64  `json:"total_hours_logged"`
}

// NewWorkloadResponse maps a snapshot.
func NewWorkloadResponse(w *domain.WorkloadSnapshot) WorkloadResponse {
	return WorkloadResponse{
		EmployeeID:       w.EmployeeID,
		Name:             w.Name,
		Position:         w.Position,
		Department:       w.Department,
		Specializations:  w.Specializations,
		Active:           w.Active,
		ActiveTickets:    w.ActiveTickets,
		CompletedTickets: w.CompletedTickets,
		TotalHoursLogged: w.TotalHoursLogged,
	}
}

// RecommendationResponse is one scored candidate.
type RecommendationResponse struct {
	WorkloadResponse
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// RecommendationReportResponse is the ranked candidate list for a ticket.
type RecommendationReportResponse struct {
	TicketID        string                   `json:"ticket_id"`
	TicketTitle     string                   `json:"ticket_title"`
	Category        string                   `json:"category"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// NewRecommendationReportResponse maps a report.
func NewRecommendationReportResponse(r *service.RecommendationReport) RecommendationReportResponse {
	resp := RecommendationReportResponse{
		TicketID:        r.TicketID,
		TicketTitle:     r.TicketTitle,
		Category:        r.Category,
		Recommendations: make([]RecommendationResponse, 0, len(r.Recommendations)),
	}
	for i := range r.Recommendations {
		rec := &r.Recommendations[i]
		resp.Recommendations = append(resp.Recommendations, RecommendationResponse{
			WorkloadResponse: NewWorkloadResponse(&rec.WorkloadSnapshot),
			Score:            rec.Score,
			Reasons:          rec.Reasons,
		})
	}
	return resp
}

// PerformanceMetrics carries the computed throughput figures.
type PerformanceMetrics struct {
	TotalHours              float64 `json:"total_hours"`
	BillableHours           float64 `json:"billable_hours"`
	TicketsAssigned         int     `json:"tickets_assigned"`
	TicketsCompleted        int     `json:"tickets_completed"`
	CompletionRate          float64 `json:"completion_rate"`
	AvgCompletionHours      float64 `json:"avg_completion_hours"`
	HoursPerCompletedTicket float64 `json:"hours_per_completed_ticket"`
}

// PerformanceResponse summarizes throughput over a trailing window.
type PerformanceResponse struct {
	Employee EmployeeResponse     `json:"employee"`
	Period   service.PeriodReport `json:"period"`
	Metrics  PerformanceMetrics   `json:"metrics"`
}

// NewPerformanceResponse maps a performance report.
func NewPerformanceResponse(r *service.PerformanceReport) PerformanceResponse {
	return PerformanceResponse{
		Employee: NewEmployeeResponse(r.Employee),
		Period:   r.Period,
		Metrics: PerformanceMetrics{
			TotalHours:              r.Metrics.TotalHours,
			BillableHours:           r.Metrics.BillableHours,
			TicketsAssigned:         r.Metrics.TicketsAssigned,
			TicketsCompleted:        r.Metrics.TicketsCompleted,
			CompletionRate:          r.Metrics.CompletionRate,
			AvgCompletionHours:      r.Metrics.AvgCompletionHours,
			HoursPerCompletedTicket: r.Metrics.HoursPerCompletedTicket,
		},
	}
}
