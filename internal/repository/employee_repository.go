package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

const employeeColumns = `id, user_id, name, email, position, department, phone, specializations,
               avatar_url, is_active, created_at, updated_at`

// EmployeeFilter captures listing parameters.
type EmployeeFilter struct {
	Department *string
	Active     *bool
	Search     *string
}

// EmployeePatch lists the fields a partial update may touch.
type EmployeePatch struct {
	Name            *string
	Email           *string
	Position        *string
	Department      *string
	Phone           *string
	Specializations []string
	AvatarURL       *string
	Active          *bool
}

// Empty reports whether the patch carries no changes.
func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Position == nil &&
		p.Department == nil && p.Phone == nil && p.Specializations == nil &&
		p.AvatarURL == nil && p.Active == nil
}

// EmployeeRepository handles persistence for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Employee, error)
	Patch(ctx context.Context, ownerID, id string, patch EmployeePatch) (*domain.Employee, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string, filter EmployeeFilter) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (user_id, name, email, position, department, phone, specializations, avatar_url, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.OwnerID,
		employee.Name,
		employee.Email,
		employee.Position,
		employee.Department,
		employee.Phone,
		employee.Specializations,
		employee.AvatarURL,
		employee.Active,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id=$1 AND user_id=$2`, employeeColumns)
	return scanEmployeeRow(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *employeeRepository) Patch(ctx context.Context, ownerID, id string, patch EmployeePatch) (*domain.Employee, error) {
	sets := []string{}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Email != nil {
		addSet("email", *patch.Email)
	}
	if patch.Position != nil {
		addSet("position", *patch.Position)
	}
	if patch.Department != nil {
		addSet("department", *patch.Department)
	}
	if patch.Phone != nil {
		addSet("phone", *patch.Phone)
	}
	if patch.Specializations != nil {
		addSet("specializations", patch.Specializations)
	}
	if patch.AvatarURL != nil {
		addSet("avatar_url", *patch.AvatarURL)
	}
	if patch.Active != nil {
		addSet("is_active", *patch.Active)
	}
	if len(sets) == 0 {
		return nil, pgx.ErrNoRows
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	idPos := len(args)
	args = append(args, ownerID)
	ownerPos := len(args)

	query := fmt.Sprintf(`UPDATE employees SET %s WHERE id=$%d AND user_id=$%d RETURNING %s`,
		strings.Join(sets, ", "), idPos, ownerPos, employeeColumns)
	return scanEmployeeRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *employeeRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, ownerID string, filter EmployeeFilter) ([]domain.Employee, error) {
	args := []any{ownerID}
	clauses := []string{"user_id=$1"}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %s OR LOWER(email) LIKE %s OR LOWER(position) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY created_at DESC`,
		employeeColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		employee, err := scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}

func scanEmployeeRow(row pgx.Row) (*domain.Employee, error) {
	var employee domain.Employee
	if err := row.Scan(
		&employee.ID,
		&employee.OwnerID,
		&employee.Name,
		&employee.Email,
		&employee.Position,
		&employee.Department,
		&employee.Phone,
		&employee.Specializations,
		&employee.AvatarURL,
		&employee.Active,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}
