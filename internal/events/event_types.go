package events

import (
	"time"

	"github.com/loga115/ticketflow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTimeLogged          EventType = "time_logged"
	EventEmployeeDeleted     EventType = "employee_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OwnerID   string      `json:"owner_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID     string                `json:"ticket_id"`
	TicketNumber string                `json:"ticket_number"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID   string  `json:"ticket_id"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

// TimeLoggedPayload payload.
type TimeLoggedPayload struct {
	TimeLogID  string  `json:"time_log_id"`
	EmployeeID string  `json:"employee_id"`
	TicketID   *string `json:"ticket_id,omitempty"`
	Hours      float64 `json:"hours"`
	Billable   bool    `json:"billable"`
}

// EmployeeDeletedPayload payload.
type EmployeeDeletedPayload struct {
	EmployeeID string `json:"employee_id"`
}
