package domain

import "time"

// TicketCategory groups tickets and drives specialization matching.
type TicketCategory struct {
	ID          string
	OwnerID     string
	Name        string
	Description *string
	Color       string
	Icon        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
