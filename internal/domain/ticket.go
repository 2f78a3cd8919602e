package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusInReview   TicketStatus = "in_review"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusBlocked    TicketStatus = "blocked"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ValidTicketStatus reports whether s is a known status.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusInReview,
		TicketStatusResolved, TicketStatusClosed, TicketStatusBlocked:
		return true
	}
	return false
}

// ValidTicketPriority reports whether p is a known priority.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// IsCompleted reports whether the status counts as completed work.
// Active is everything else.
func (s TicketStatus) IsCompleted() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Ticket is the aggregate for tracked work items.
type Ticket struct {
	ID             string
	OwnerID        string
	TicketNumber   string
	Title          string
	Description    string
	CategoryID     *string
	Status         TicketStatus
	Priority       TicketPriority
	AssigneeID     *string
	ReportedBy     string
	ReporterEmail  string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AssignedAt     *time.Time
	CompletedAt    *time.Time
}
