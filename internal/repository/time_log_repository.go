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

const timeLogColumns = `id, user_id, employee_id, ticket_id, description, hours_worked, work_date,
               start_time, end_time, is_billable, created_at, updated_at`

// TimeLogFilter captures listing parameters.
type TimeLogFilter struct {
	EmployeeID *string
	TicketID   *string
	StartDate  *time.Time
	EndDate    *time.Time
	Billable   *bool
	Limit      int
	Offset     int
}

// TimeLogPatch lists the fields a partial update may touch.
type TimeLogPatch struct {
	EmployeeID  *string
	TicketID    *string
	Description *string
	HoursWorked *float64
	WorkDate    *time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Billable    *bool
}

// Empty reports whether the patch carries no changes.
func (p TimeLogPatch) Empty() bool {
	return p.EmployeeID == nil && p.TicketID == nil && p.Description == nil &&
		p.HoursWorked == nil && p.WorkDate == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Billable == nil
}

// TimeLogRepository handles persistence for employee time logs.
type TimeLogRepository interface {
	Create(ctx context.Context, log *domain.TimeLog) error
	CreateBatch(ctx context.Context, logs []domain.TimeLog) ([]domain.TimeLog, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.TimeLog, error)
	Patch(ctx context.Context, ownerID, id string, patch TimeLogPatch) (*domain.TimeLog, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string, filter TimeLogFilter) ([]domain.TimeLog, error)
	ListByEmployeeWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.TimeLog, error)
	ListByTicket(ctx context.Context, ownerID, ticketID string) ([]domain.TimeLog, error)
	ListByWindow(ctx context.Context, ownerID string, window domain.PeriodWindow) ([]domain.TimeLog, error)
}

type timeLogRepository struct {
	pool *pgxpool.Pool
}

// NewTimeLogRepository instantiates the repository.
func NewTimeLogRepository(pool *pgxpool.Pool) TimeLogRepository {
	return &timeLogRepository{pool: pool}
}

func (r *timeLogRepository) Create(ctx context.Context, log *domain.TimeLog) error {
	const query = `
        INSERT INTO employee_time_logs (user_id, employee_id, ticket_id, description, hours_worked,
                                        work_date, start_time, end_time, is_billable)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		log.OwnerID,
		log.EmployeeID,
		log.TicketID,
		log.Description,
		log.HoursWorked,
		log.WorkDate,
		log.StartTime,
		log.EndTime,
		log.Billable,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
}

func (r *timeLogRepository) CreateBatch(ctx context.Context, logs []domain.TimeLog) ([]domain.TimeLog, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO employee_time_logs (user_id, employee_id, ticket_id, description, hours_worked,
                                        work_date, start_time, end_time, is_billable)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	created := make([]domain.TimeLog, 0, len(logs))
	for _, log := range logs {
		if err := tx.QueryRow(ctx, query,
			log.OwnerID,
			log.EmployeeID,
			log.TicketID,
			log.Description,
			log.HoursWorked,
			log.WorkDate,
			log.StartTime,
			log.EndTime,
			log.Billable,
		).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt); err != nil {
			return nil, err
		}
		created = append(created, log)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *timeLogRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.TimeLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM employee_time_logs WHERE id=$1 AND user_id=$2`, timeLogColumns)
	return scanTimeLogRow(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *timeLogRepository) Patch(ctx context.Context, ownerID, id string, patch TimeLogPatch) (*domain.TimeLog, error) {
	sets := []string{}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.EmployeeID != nil {
		addSet("employee_id", *patch.EmployeeID)
	}
	if patch.TicketID != nil {
		addSet("ticket_id", *patch.TicketID)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.HoursWorked != nil {
		addSet("hours_worked", *patch.HoursWorked)
	}
	if patch.WorkDate != nil {
		addSet("work_date", *patch.WorkDate)
	}
	if patch.StartTime != nil {
		addSet("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		addSet("end_time", *patch.EndTime)
	}
	if patch.Billable != nil {
		addSet("is_billable", *patch.Billable)
	}
	if len(sets) == 0 {
		return nil, pgx.ErrNoRows
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	idPos := len(args)
	args = append(args, ownerID)
	ownerPos := len(args)

	query := fmt.Sprintf(`UPDATE employee_time_logs SET %s WHERE id=$%d AND user_id=$%d RETURNING %s`,
		strings.Join(sets, ", "), idPos, ownerPos, timeLogColumns)
	return scanTimeLogRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *timeLogRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employee_time_logs WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timeLogRepository) List(ctx context.Context, ownerID string, filter TimeLogFilter) ([]domain.TimeLog, error) {
	args := []any{ownerID}
	clauses := []string{"user_id=$1"}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		clauses = append(clauses, fmt.Sprintf("work_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		clauses = append(clauses, fmt.Sprintf("work_date <= $%d", len(args)))
	}
	if filter.Billable != nil {
		args = append(args, *filter.Billable)
		clauses = append(clauses, fmt.Sprintf("is_billable=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM employee_time_logs WHERE %s ORDER BY work_date DESC LIMIT %d OFFSET %d`,
		timeLogColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeLogs(rows)
}

func (r *timeLogRepository) ListByEmployeeWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.TimeLog, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM employee_time_logs
        WHERE user_id=$1 AND employee_id=$2 AND work_date >= $3 AND work_date <= $4
        ORDER BY work_date DESC`, timeLogColumns)
	rows, err := r.pool.Query(ctx, query, ownerID, employeeID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeLogs(rows)
}

func (r *timeLogRepository) ListByTicket(ctx context.Context, ownerID, ticketID string) ([]domain.TimeLog, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM employee_time_logs
        WHERE user_id=$1 AND ticket_id=$2
        ORDER BY work_date ASC`, timeLogColumns)
	rows, err := r.pool.Query(ctx, query, ownerID, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeLogs(rows)
}

func (r *timeLogRepository) ListByWindow(ctx context.Context, ownerID string, window domain.PeriodWindow) ([]domain.TimeLog, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM employee_time_logs
        WHERE user_id=$1 AND work_date >= $2 AND work_date <= $3
        ORDER BY work_date ASC`, timeLogColumns)
	rows, err := r.pool.Query(ctx, query, ownerID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeLogs(rows)
}

func scanTimeLogRow(row pgx.Row) (*domain.TimeLog, error) {
	var log domain.TimeLog
	if err := row.Scan(
		&log.ID,
		&log.OwnerID,
		&log.EmployeeID,
		&log.TicketID,
		&log.Description,
		&log.HoursWorked,
		&log.WorkDate,
		&log.StartTime,
		&log.EndTime,
		&log.Billable,
		&log.CreatedAt,
		&log.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &log, nil
}

func scanTimeLogs(rows pgx.Rows) ([]domain.TimeLog, error) {
	var result []domain.TimeLog
	for rows.Next() {
		log, err := scanTimeLogRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *log)
	}
	return result, rows.Err()
}
