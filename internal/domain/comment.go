package domain

import "time"

// TicketComment is a discussion entry on a ticket.
type TicketComment struct {
	ID           string
	TicketID     string
	OwnerID      string
	EmployeeID   *string
	EmployeeName *string
	Content      string
	Internal     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TicketHistory records an audit entry for a ticket action.
type TicketHistory struct {
	ID          string
	TicketID    string
	OwnerID     string
	EmployeeID  *string
	Action      string
	Description string
	CreatedAt   time.Time
}
