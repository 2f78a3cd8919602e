package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

const workloadColumns = `employee_id, name, position, department, specializations, is_active,
               active_tickets, completed_tickets, total_hours_logged`

// WorkloadRepository reads the employee_workload view. Every row is a
// point-in-time snapshot; nothing is cached.
type WorkloadRepository interface {
	GetByEmployee(ctx context.Context, ownerID, employeeID string) (*domain.WorkloadSnapshot, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkloadSnapshot, error)
}

type workloadRepository struct {
	pool *pgxpool.Pool
}

// NewWorkloadRepository instantiates the repository.
func NewWorkloadRepository(pool *pgxpool.Pool) WorkloadRepository {
	return &workloadRepository{pool: pool}
}

func (r *workloadRepository) GetByEmployee(ctx context.Context, ownerID, employeeID string) (*domain.WorkloadSnapshot, error) {
	query := `SELECT ` + workloadColumns + ` FROM employee_workload WHERE employee_id=$1 AND user_id=$2`
	return scanWorkloadRow(r.pool.QueryRow(ctx, query, employeeID, ownerID))
}

func (r *workloadRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkloadSnapshot, error) {
	query := `SELECT ` + workloadColumns + ` FROM employee_workload WHERE user_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkloadSnapshot
	for rows.Next() {
		snapshot, err := scanWorkloadRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *snapshot)
	}
	return result, rows.Err()
}

func scanWorkloadRow(row pgx.Row) (*domain.WorkloadSnapshot, error) {
	var snapshot domain.WorkloadSnapshot
	if err := row.Scan(
		&snapshot.EmployeeID,
		&snapshot.Name,
		&snapshot.Position,
		&snapshot.Department,
		&snapshot.Specializations,
		&snapshot.Active,
		&snapshot.ActiveTickets,
		&snapshot.CompletedTickets,
		&snapshot.TotalHoursLogged,
	); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
