package domain

import "time"

// TimeLog records hours an employee worked, optionally against a ticket.
type TimeLog struct {
	ID          string
	OwnerID     string
	EmployeeID  string
	TicketID    *string
	Description string
	HoursWorked float64
	WorkDate    time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Billable    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidHours enforces the accepted range for a single log entry.
func ValidHours(h float64) bool {
	return h > 0 && h <= 24
}
