package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

const ticketColumns = `id, user_id, ticket_number, title, description, category_id, status, priority,
               assigned_to, reported_by, reporter_email, due_date, estimated_hours, tags,
               created_at, updated_at, assigned_at, completed_at`

// TicketPatch lists the fields a partial update may touch.
type TicketPatch struct {
	Title          *string
	Description    *string
	CategoryID     *string
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	AssigneeID     *string
	ReportedBy     *string
	ReporterEmail  *string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
}

// Empty reports whether the patch carries no changes.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CategoryID == nil &&
		p.Status == nil && p.Priority == nil && p.AssigneeID == nil &&
		p.ReportedBy == nil && p.ReporterEmail == nil && p.DueDate == nil &&
		p.EstimatedHours == nil && p.Tags == nil
}

// TicketRepository encapsulates ticket persistence. Every query is scoped to
// the owning caller.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Ticket, error)
	Patch(ctx context.Context, ownerID, id string, patch TicketPatch) (*domain.Ticket, error)
	SetAssignment(ctx context.Context, ownerID, id string, assigneeID *string, assignedAt *time.Time) (*domain.Ticket, error)
	SetCompletion(ctx context.Context, ownerID, id string, status domain.TicketStatus, completedAt *time.Time) error
	Delete(ctx context.Context, ownerID, id string) error
	ListByAssignee(ctx context.Context, ownerID, employeeID string, limit int) ([]domain.Ticket, error)
	ListAssignedSince(ctx context.Context, ownerID, employeeID string, since time.Time) ([]domain.Ticket, error)
	ListCreatedWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.Ticket, error)
	ListCompletedWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.Ticket, error)
	CountActiveByAssignee(ctx context.Context, employeeID string) (int, error)
	StatRows(ctx context.Context, ownerID string) ([]TicketStatRow, error)
}

// TicketStatRow is the thin projection used by the stats overview.
type TicketStatRow struct {
	Status     domain.TicketStatus
	Priority   domain.TicketPriority
	AssigneeID *string
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, title, description, category_id, status, priority, assigned_to,
                             reported_by, reporter_email, due_date, estimated_hours, tags, assigned_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, ticket_number, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.Title,
		ticket.Description,
		ticket.CategoryID,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.ReportedBy,
		ticket.ReporterEmail,
		ticket.DueDate,
		ticket.EstimatedHours,
		ticket.Tags,
		ticket.AssignedAt,
	).Scan(&ticket.ID, &ticket.TicketNumber, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND user_id=$2`, ticketColumns)
	row := r.pool.QueryRow(ctx, query, id, ownerID)
	return scanTicketRow(row)
}

func (r *ticketRepository) Patch(ctx context.Context, ownerID, id string, patch TicketPatch) (*domain.Ticket, error) {
	sets := []string{}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.CategoryID != nil {
		addSet("category_id", *patch.CategoryID)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.Priority != nil {
		addSet("priority", *patch.Priority)
	}
	if patch.AssigneeID != nil {
		addSet("assigned_to", *patch.AssigneeID)
	}
	if patch.ReportedBy != nil {
		addSet("reported_by", *patch.ReportedBy)
	}
	if patch.ReporterEmail != nil {
		addSet("reporter_email", *patch.ReporterEmail)
	}
	if patch.DueDate != nil {
		addSet("due_date", *patch.DueDate)
	}
	if patch.EstimatedHours != nil {
		addSet("estimated_hours", *patch.EstimatedHours)
	}
	if patch.Tags != nil {
		addSet("tags", patch.Tags)
	}
	if len(sets) == 0 {
		return nil, pgx.ErrNoRows
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	idPos := len(args)
	args = append(args, ownerID)
	ownerPos := len(args)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d AND user_id=$%d RETURNING %s`,
		strings.Join(sets, ", "), idPos, ownerPos, ticketColumns)
	row := r.pool.QueryRow(ctx, query, args...)
	return scanTicketRow(row)
}

func (r *ticketRepository) SetAssignment(ctx context.Context, ownerID, id string, assigneeID *string, assignedAt *time.Time) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET assigned_to=$1, assigned_at=$2, updated_at=NOW()
        WHERE id=$3 AND user_id=$4
        RETURNING %s`, ticketColumns)
	row := r.pool.QueryRow(ctx, query, assigneeID, assignedAt, id, ownerID)
	return scanTicketRow(row)
}

func (r *ticketRepository) SetCompletion(ctx context.Context, ownerID, id string, status domain.TicketStatus, completedAt *time.Time) error {
	const query = `
        UPDATE tickets SET status=$1, completed_at=$2, updated_at=NOW()
        WHERE id=$3 AND user_id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, completedAt, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListByAssignee(ctx context.Context, ownerID, employeeID string, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE user_id=$1 AND assigned_to=$2
        ORDER BY created_at DESC LIMIT %d`, ticketColumns, limit)
	rows, err := r.pool.Query(ctx, query, ownerID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAssignedSince(ctx context.Context, ownerID, employeeID string, since time.Time) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE user_id=$1 AND assigned_to=$2 AND created_at >= $3
        ORDER BY created_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, ownerID, employeeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListCreatedWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE user_id=$1 AND assigned_to=$2 AND created_at >= $3 AND created_at < $4
        ORDER BY created_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, ownerID, employeeID, window.Start, window.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListCompletedWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE user_id=$1 AND assigned_to=$2
          AND status IN ('resolved','closed')
          AND completed_at >= $3 AND completed_at < $4
        ORDER BY completed_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, ownerID, employeeID, window.Start, window.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountActiveByAssignee(ctx context.Context, employeeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE assigned_to=$1 AND status <> 'closed'`
	var count int
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) StatRows(ctx context.Context, ownerID string) ([]TicketStatRow, error) {
	const query = `SELECT status, priority, assigned_to FROM tickets WHERE user_id=$1`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketStatRow
	for rows.Next() {
		var row TicketStatRow
		if err := rows.Scan(&row.Status, &row.Priority, &row.AssigneeID); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.TicketNumber,
		&ticket.Title,
		&ticket.Description,
		&ticket.CategoryID,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssigneeID,
		&ticket.ReportedBy,
		&ticket.ReporterEmail,
		&ticket.DueDate,
		&ticket.EstimatedHours,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.AssignedAt,
		&ticket.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
