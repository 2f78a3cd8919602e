package dto

import (
	"time"

	"github.com/loga115/ticketflow/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	CategoryID     *string    `json:"category_id"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	AssigneeID     *string    `json:"assigned_to"`
	ReportedBy     string     `json:"reported_by"`
	ReporterEmail  string     `json:"reporter_email"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	Tags           []string   `json:"tags"`
}

// UpdateTicketRequest payload. Absent fields are left untouched.
type UpdateTicketRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	CategoryID     *string    `json:"category_id"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	ReportedBy     *string    `json:"reported_by"`
	ReporterEmail  *string    `json:"reporter_email"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	Tags           []string   `json:"tags"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	EmployeeID string `json:"employee_id"`
}

// TicketResponse is the canonical ticket representation.
type TicketResponse struct {
	ID             string                `json:"id"`
	TicketNumber   string                `json:"ticket_number"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	CategoryID     *string               `json:"category_id"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	AssigneeID     *string               `json:"assigned_to"`
	ReportedBy     string                `json:"reported_by"`
	ReporterEmail  string                `json:"reporter_email,omitempty"`
	DueDate        *time.Time            `json:"due_date"`
	EstimatedHours *float64              `json:"estimated_hours"`
	Tags           []string              `json:"tags"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	AssignedAt     *time.Time            `json:"assigned_at"`
	CompletedAt    *time.Time            `json:"completed_at"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		TicketNumber:   t.TicketNumber,
		Title:          t.Title,
		Description:    t.Description,
		CategoryID:     t.CategoryID,
		Status:         t.Status,
		Priority:       t.Priority,
		AssigneeID:     t.AssigneeID,
		ReportedBy:     t.ReportedBy,
		ReporterEmail:  t.ReporterEmail,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Tags:           t.Tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		AssignedAt:     t.AssignedAt,
		CompletedAt:    t.CompletedAt,
	}
}

// TicketSummaryResponse is the denormalized listing row.
type TicketSummaryResponse struct {
	ID             string                `json:"id"`
	TicketNumber   string                `json:"ticket_number"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	CategoryID     *string               `json:"category_id"`
	CategoryName   string                `json:"category_name"`
	CategoryColor  string                `json:"category_color"`
	AssigneeID     *string               `json:"assigned_to"`
	AssigneeName   *string               `json:"assignee_name"`
	DueDate        *time.Time            `json:"due_date"`
	EstimatedHours *float64              `json:"estimated_hours"`
	Tags           []string              `json:"tags"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	CompletedAt    *time.Time            `json:"completed_at"`
}

// NewTicketSummaryResponse maps a summary view row.
func NewTicketSummaryResponse(s *domain.TicketSummary) TicketSummaryResponse {
	return TicketSummaryResponse{
		ID:             s.ID,
		TicketNumber:   s.TicketNumber,
		Title:          s.Title,
		Description:    s.Description,
		Status:         s.Status,
		Priority:       s.Priority,
		CategoryID:     s.CategoryID,
		CategoryName:   s.CategoryName,
		CategoryColor:  s.CategoryColor,
		AssigneeID:     s.EmployeeID,
		AssigneeName:   s.EmployeeName,
		DueDate:        s.DueDate,
		EstimatedHours: s.EstimatedHours,
		Tags:           s.Tags,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		CompletedAt:    s.CompletedAt,
	}
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content    string  `json:"content"`
	EmployeeID *string `json:"employee_id"`
	Internal   bool    `json:"is_internal"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse represents a ticket comment.
type CommentResponse struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	EmployeeID   *string   `json:"employee_id"`
	EmployeeName *string   `json:"employee_name,omitempty"`
	Content      string    `json:"content"`
	Internal     bool      `json:"is_internal"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		TicketID:     c.TicketID,
		EmployeeID:   c.EmployeeID,
		EmployeeName: c.EmployeeName,
		Content:      c.Content,
		Internal:     c.Internal,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// HistoryResponse represents an audit entry.
type HistoryResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	EmployeeID  *string   `json:"employee_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHistoryResponse maps an audit entry.
func NewHistoryResponse(h *domain.TicketHistory) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		TicketID:    h.TicketID,
		EmployeeID:  h.EmployeeID,
		Action:      h.Action,
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
	}
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Icon        *string `json:"icon"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

// CategoryResponse represents a ticket category.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	Icon        *string   `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c *domain.TicketCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
