package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

const summaryColumns = `id, user_id, ticket_number, title, description, status, priority,
               category_id, category_name, category_color, employee_id, employee_name,
               due_date, estimated_hours, tags, created_at, updated_at, completed_at`

// SummaryListLimit caps one page of the denormalized listing.
const SummaryListLimit = 500

// SummaryFilter captures listing predicates for the denormalized view.
type SummaryFilter struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssigneeID *string
	CategoryID *string
	Search     *string
	Limit      int
	Offset     int
}

// SummaryRepository reads the ticket_summary view: tickets joined with
// category and assignee for list filtering.
type SummaryRepository interface {
	List(ctx context.Context, ownerID string, filter SummaryFilter) ([]domain.TicketSummary, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.TicketSummary, error)
	ListByEmployee(ctx context.Context, ownerID, employeeID string, status *domain.TicketStatus) ([]domain.TicketSummary, error)
}

type summaryRepository struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository instantiates the repository.
func NewSummaryRepository(pool *pgxpool.Pool) SummaryRepository {
	return &summaryRepository{pool: pool}
}

func (r *summaryRepository) List(ctx context.Context, ownerID string, filter SummaryFilter) ([]domain.TicketSummary, error) {
	args := []any{ownerID}
	clauses := []string{"user_id=$1"}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_number) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 || limit > SummaryListLimit {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM ticket_summary WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		summaryColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *summaryRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.TicketSummary, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_summary WHERE id=$1 AND user_id=$2`, summaryColumns)
	return scanSummaryRow(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *summaryRepository) ListByEmployee(ctx context.Context, ownerID, employeeID string, status *domain.TicketStatus) ([]domain.TicketSummary, error) {
	args := []any{ownerID, employeeID}
	clauses := []string{"user_id=$1", "employee_id=$2"}
	if status != nil {
		args = append(args, *status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM ticket_summary WHERE %s ORDER BY created_at DESC`,
		summaryColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaryRow(row pgx.Row) (*domain.TicketSummary, error) {
	var summary domain.TicketSummary
	if err := row.Scan(
		&summary.ID,
		&summary.OwnerID,
		&summary.TicketNumber,
		&summary.Title,
		&summary.Description,
		&summary.Status,
		&summary.Priority,
		&summary.CategoryID,
		&summary.CategoryName,
		&summary.CategoryColor,
		&summary.EmployeeID,
		&summary.EmployeeName,
		&summary.DueDate,
		&summary.EstimatedHours,
		&summary.Tags,
		&summary.CreatedAt,
		&summary.UpdatedAt,
		&summary.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}

func scanSummaries(rows pgx.Rows) ([]domain.TicketSummary, error) {
	var result []domain.TicketSummary
	for rows.Next() {
		summary, err := scanSummaryRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *summary)
	}
	return result, rows.Err()
}
