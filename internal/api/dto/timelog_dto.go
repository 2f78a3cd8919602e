package dto

import (
	"time"

	"github.com/loga115/ticketflow/internal/domain"
)

// CreateTimeLogRequest payload. WorkDate uses YYYY-MM-DD; Billable defaults
// to true when omitted.
type CreateTimeLogRequest struct {
	EmployeeID  string     `json:"employee_id"`
	TicketID    *string    `json:"ticket_id"`
	Description string     `json:"description"`
	HoursWorked float64    `json:"hours_worked"`
	WorkDate    string     `json:"work_date"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Billable    *bool      `json:"is_billable"`
}

// BatchTimeLogRequest payload for atomic multi-entry submission.
type BatchTimeLogRequest struct {
	Logs []CreateTimeLogRequest `json:"logs"`
}

// UpdateTimeLogRequest payload. Absent fields are left untouched.
type UpdateTimeLogRequest struct {
	EmployeeID  *string    `json:"employee_id"`
	TicketID    *string    `json:"ticket_id"`
	Description *string    `json:"description"`
	HoursWorked *float64   `json:"hours_worked"`
	WorkDate    *string    `json:"work_date"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Billable    *bool      `json:"is_billable"`
}

// TimeLogResponse represents a time log entry.
type TimeLogResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	TicketID    *string    `json:"ticket_id"`
	Description string     `json:"description"`
	HoursWorked float64    `json:"hours_worked"`
	WorkDate    string     `json:"work_date"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Billable    bool       `json:"is_billable"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTimeLogResponse maps a time log.
func NewTimeLogResponse(l *domain.TimeLog) TimeLogResponse {
	return TimeLogResponse{
		ID:          l.ID,
		EmployeeID:  l.EmployeeID,
		TicketID:    l.TicketID,
		Description: l.Description,
		HoursWorked: l.HoursWorked,
		WorkDate:    l.WorkDate.Format("2006-01-02"),
		StartTime:   l.StartTime,
		EndTime:     l.EndTime,
		Billable:    l.Billable,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
