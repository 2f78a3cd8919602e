package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

const categoryColumns = `id, user_id, name, description, color, icon, created_at, updated_at`

// CategoryPatch lists the fields a partial update may touch.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
}

// Empty reports whether the patch carries no changes.
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Color == nil && p.Icon == nil
}

// CategoryRepository handles persistence for ticket categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.TicketCategory) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.TicketCategory, error)
	Patch(ctx context.Context, ownerID, id string, patch CategoryPatch) (*domain.TicketCategory, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]domain.TicketCategory, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.TicketCategory) error {
	const query = `
        INSERT INTO ticket_categories (user_id, name, description, color, icon)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.OwnerID,
		category.Name,
		category.Description,
		category.Color,
		category.Icon,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.TicketCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_categories WHERE id=$1 AND user_id=$2`, categoryColumns)
	return scanCategoryRow(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *categoryRepository) Patch(ctx context.Context, ownerID, id string, patch CategoryPatch) (*domain.TicketCategory, error) {
	sets := []string{}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Color != nil {
		addSet("color", *patch.Color)
	}
	if patch.Icon != nil {
		addSet("icon", *patch.Icon)
	}
	if len(sets) == 0 {
		return nil, pgx.ErrNoRows
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	idPos := len(args)
	args = append(args, ownerID)
	ownerPos := len(args)

	query := fmt.Sprintf(`UPDATE ticket_categories SET %s WHERE id=$%d AND user_id=$%d RETURNING %s`,
		strings.Join(sets, ", "), idPos, ownerPos, categoryColumns)
	return scanCategoryRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *categoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_categories WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context, ownerID string) ([]domain.TicketCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_categories WHERE user_id=$1 ORDER BY name`, categoryColumns)
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCategory
	for rows.Next() {
		category, err := scanCategoryRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *category)
	}
	return result, rows.Err()
}

func scanCategoryRow(row pgx.Row) (*domain.TicketCategory, error) {
	var category domain.TicketCategory
	if err := row.Scan(
		&category.ID,
		&category.OwnerID,
		&category.Name,
		&category.Description,
		&category.Color,
		&category.Icon,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
