package domain

import "time"

// TicketSummary is the denormalized listing row produced by the
// ticket_summary view: ticket fields joined with category and assignee.
type TicketSummary struct {
	ID             string
	OwnerID        string
	TicketNumber   string
	Title          string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	CategoryID     *string
	CategoryName   string
	CategoryColor  string
	EmployeeID     *string
	EmployeeName   *string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}
