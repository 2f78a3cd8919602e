package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loga115/ticketflow/internal/config"
	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/events"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// TicketService implements the ticket lifecycle: creation, partial updates,
// assignment, comments, history and stats. Assignment and completion
// timestamps are maintained here, not by callers.
type TicketService struct {
	tickets    repository.TicketRepository
	summaries  repository.SummaryRepository
	categories repository.CategoryRepository
	employees  repository.EmployeeRepository
	comments   repository.CommentRepository
	history    repository.HistoryRepository
	dispatcher events.Dispatcher
	cfg        config.TicketConfig
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	SummaryRepo  repository.SummaryRepository
	CategoryRepo repository.CategoryRepository
	EmployeeRepo repository.EmployeeRepository
	CommentRepo  repository.CommentRepository
	HistoryRepo  repository.HistoryRepository
	Dispatcher   events.Dispatcher
	Config       config.TicketConfig
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewTicketService creates the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		summaries:  deps.SummaryRepo,
		categories: deps.CategoryRepo,
		employees:  deps.EmployeeRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		cfg:        deps.Config,
		logger:     logger,
		now:        now,
	}
}

// TicketCreateInput carries the fields accepted on creation.
type TicketCreateInput struct {
	Title          string
	Description    string
	CategoryID     *string
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	AssigneeID     *string
	ReportedBy     string
	ReporterEmail  string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
}

// Create persists a new ticket. Omitted status and priority fall back to the
// configured defaults; explicitly invalid values are rejected.
func (s *TicketService) Create(ctx context.Context, ownerID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.ReportedBy == "" {
		return nil, apperrors.NewValidationError("reported_by is required", nil)
	}

	status := domain.TicketStatus(s.cfg.DefaultStatus)
	if input.Status != nil {
		status = *input.Status
	}
	if !domain.ValidTicketStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	priority := domain.TicketPriority(s.cfg.DefaultPriority)
	if input.Priority != nil {
		priority = *input.Priority
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, ownerID, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}
	if input.AssigneeID != nil {
		if _, err := s.employees.GetByID(ctx, ownerID, *input.AssigneeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": *input.AssigneeID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	now := s.now().UTC()
	ticket := &domain.Ticket{
		OwnerID:        ownerID,
		Title:          title,
		Description:    input.Description,
		CategoryID:     input.CategoryID,
		Status:         status,
		Priority:       priority,
		AssigneeID:     input.AssigneeID,
		ReportedBy:     input.ReportedBy,
		ReporterEmail:  input.ReporterEmail,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Tags:           input.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if ticket.AssigneeID != nil {
		ticket.AssignedAt = &now
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if status.IsCompleted() {
		if err := s.tickets.SetCompletion(ctx, ownerID, ticket.ID, status, &now); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.CompletedAt = &now
	}

	s.recordHistory(ctx, ownerID, ticket.ID, nil, "created",
		fmt.Sprintf("Ticket created with status %s", ticket.Status))
	s.publish(ctx, ownerID, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Priority:     ticket.Priority,
		Title:        ticket.Title,
	})
	return ticket, nil
}

// Get returns the enriched summary view of one ticket.
func (s *TicketService) Get(ctx context.Context, ownerID, ticketID string) (*domain.TicketSummary, error) {
	summary, err := s.summaries.GetByID(ctx, ownerID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return summary, nil
}

// List returns summaries matching the filter, newest first.
func (s *TicketService) List(ctx context.Context, ownerID string, filter repository.SummaryFilter) ([]domain.TicketSummary, error) {
	if filter.Status != nil && !domain.ValidTicketStatus(*filter.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *filter.Status})
	}
	if filter.Priority != nil && !domain.ValidTicketPriority(*filter.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *filter.Priority})
	}
	rows, err := s.summaries.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// Update applies a partial update. Status transitions into or out of a
// completed state maintain completed_at; assignment changes go through
// Assign and Unassign instead.
func (s *TicketService) Update(ctx context.Context, ownerID, ticketID string, patch repository.TicketPatch) (*domain.Ticket, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.AssigneeID != nil {
		return nil, apperrors.NewValidationError("use the assign endpoint to change the assignee", nil)
	}
	if patch.Status != nil && !domain.ValidTicketStatus(*patch.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
	}
	if patch.Priority != nil && !domain.ValidTicketPriority(*patch.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *patch.Priority})
	}
	if patch.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, ownerID, *patch.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *patch.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	existing, err := s.tickets.GetByID(ctx, ownerID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.tickets.Patch(ctx, ownerID, ticketID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if patch.Status != nil && *patch.Status != existing.Status {
		newStatus := *patch.Status
		switch {
		case newStatus.IsCompleted() && !existing.Status.IsCompleted():
			completedAt := s.now().UTC()
			if err := s.tickets.SetCompletion(ctx, ownerID, ticketID, newStatus, &completedAt); err != nil {
				return nil, apperrors.MapError(err)
			}
			updated.CompletedAt = &completedAt
		case !newStatus.IsCompleted() && existing.Status.IsCompleted():
			if err := s.tickets.SetCompletion(ctx, ownerID, ticketID, newStatus, nil); err != nil {
				return nil, apperrors.MapError(err)
			}
			updated.CompletedAt = nil
		}

		s.recordHistory(ctx, ownerID, ticketID, nil, "status_changed",
			fmt.Sprintf("Status changed from %s to %s", existing.Status, newStatus))
		s.publish(ctx, ownerID, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
			TicketID:  ticketID,
			OldStatus: existing.Status,
			NewStatus: newStatus,
		})
	} else {
		s.recordHistory(ctx, ownerID, ticketID, nil, "updated", "Ticket fields updated")
	}
	return updated, nil
}

// Assign sets the assignee and stamps assigned_at.
func (s *TicketService) Assign(ctx context.Context, ownerID, ticketID, employeeID string) (*domain.Ticket, error) {
	employee, err := s.employees.GetByID(ctx, ownerID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !employee.Active {
		return nil, apperrors.NewValidationError("cannot assign to an inactive employee", map[string]any{"employee_id": employeeID})
	}

	assignedAt := s.now().UTC()
	ticket, err := s.tickets.SetAssignment(ctx, ownerID, ticketID, &employeeID, &assignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, ownerID, ticketID, &employeeID, "assigned",
		fmt.Sprintf("Assigned to %s", employee.Name))
	s.publish(ctx, ownerID, events.EventTicketAssigned, events.TicketAssignedPayload{
		TicketID:   ticketID,
		EmployeeID: &employeeID,
	})
	return ticket, nil
}

// Unassign clears the assignee and assigned_at.
func (s *TicketService) Unassign(ctx context.Context, ownerID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.SetAssignment(ctx, ownerID, ticketID, nil, nil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, ownerID, ticketID, nil, "unassigned", "Assignee removed")
	s.publish(ctx, ownerID, events.EventTicketAssigned, events.TicketAssignedPayload{TicketID: ticketID})
	return ticket, nil
}

// Delete removes a ticket with its comments, history and logs via cascade.
func (s *TicketService) Delete(ctx context.Context, ownerID, ticketID string) error {
	if err := s.tickets.Delete(ctx, ownerID, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// AddComment attaches a comment to the ticket.
func (s *TicketService) AddComment(ctx context.Context, ownerID, ticketID string, employeeID *string, content string, internal bool) (*domain.TicketComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ownerID, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	now := s.now().UTC()
	comment := &domain.TicketComment{
		TicketID:   ticketID,
		OwnerID:    ownerID,
		EmployeeID: employeeID,
		Content:    content,
		Internal:   internal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordHistory(ctx, ownerID, ticketID, employeeID, "commented", "Comment added")
	return comment, nil
}

// ListComments returns a ticket's comments oldest first.
func (s *TicketService) ListComments(ctx context.Context, ownerID, ticketID string) ([]domain.TicketComment, error) {
	rows, err := s.comments.ListByTicket(ctx, ownerID, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// UpdateComment replaces a comment's content.
func (s *TicketService) UpdateComment(ctx context.Context, ownerID, ticketID, commentID, content string) (*domain.TicketComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	comment, err := s.comments.UpdateContent(ctx, ownerID, ticketID, commentID, content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment.
func (s *TicketService) DeleteComment(ctx context.Context, ownerID, ticketID, commentID string) error {
	if err := s.comments.Delete(ctx, ownerID, ticketID, commentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListHistory returns the audit trail, newest first.
func (s *TicketService) ListHistory(ctx context.Context, ownerID, ticketID string, limit int) ([]domain.TicketHistory, error) {
	rows, err := s.history.ListByTicket(ctx, ownerID, ticketID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// CountEntry pairs a grouping key with a count.
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TicketStatsOverview aggregates tickets by status and priority.
type TicketStatsOverview struct {
	Total      int          `json:"total"`
	Open       int          `json:"open"`
	Completed  int          `json:"completed"`
	Unassigned int          `json:"unassigned"`
	ByStatus   []CountEntry `json:"by_status"`
	ByPriority []CountEntry `json:"by_priority"`
}

// StatsOverview counts the tenant's tickets by status and priority.
func (s *TicketService) StatsOverview(ctx context.Context, ownerID string) (*TicketStatsOverview, error) {
	rows, err := s.tickets.StatRows(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	overview := &TicketStatsOverview{Total: len(rows)}
	byStatus := newGroupAccumulator[CountEntry]()
	byPriority := newGroupAccumulator[CountEntry]()
	for _, row := range rows {
		statusEntry := byStatus.Get(string(row.Status), func() *CountEntry {
			return &CountEntry{Key: string(row.Status)}
		})
		statusEntry.Count++
		priorityEntry := byPriority.Get(string(row.Priority), func() *CountEntry {
			return &CountEntry{Key: string(row.Priority)}
		})
		priorityEntry.Count++

		if row.Status.IsCompleted() {
			overview.Completed++
		} else {
			overview.Open++
		}
		if row.AssigneeID == nil {
			overview.Unassigned++
		}
	}
	byStatus.SortKeys(func(a, b *CountEntry) bool { return a.Count > b.Count })
	byPriority.SortKeys(func(a, b *CountEntry) bool { return a.Count > b.Count })
	overview.ByStatus = byStatus.Values()
	overview.ByPriority = byPriority.Values()
	return overview, nil
}

// CategoryStatEntry counts tickets inside one category.
type CategoryStatEntry struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
	Open     int    `json:"open"`
}

// StatsByCategory counts tickets per category name. Tickets without a
// category land under "Uncategorized".
func (s *TicketService) StatsByCategory(ctx context.Context, ownerID string) ([]CategoryStatEntry, error) {
	rows, err := s.summaries.List(ctx, ownerID, repository.SummaryFilter{Limit: repository.SummaryListLimit})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	byCategory := newGroupAccumulator[CategoryStatEntry]()
	for _, row := range rows {
		entry := byCategory.Get(row.CategoryName, func() *CategoryStatEntry {
			return &CategoryStatEntry{Category: row.CategoryName}
		})
		entry.Total++
		if !row.Status.IsCompleted() {
			entry.Open++
		}
	}
	byCategory.SortKeys(func(a, b *CategoryStatEntry) bool { return a.Total > b.Total })
	return byCategory.Values(), nil
}

func (s *TicketService) recordHistory(ctx context.Context, ownerID, ticketID string, employeeID *string, action, description string) {
	entry := &domain.TicketHistory{
		TicketID:    ticketID,
		OwnerID:     ownerID,
		EmployeeID:  employeeID,
		Action:      action,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("record ticket history", zap.Error(err), zap.String("ticket_id", ticketID))
	}
}

func (s *TicketService) publish(ctx context.Context, ownerID string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OwnerID:   ownerID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.Error(err), zap.String("event_type", string(eventType)))
	}
}
