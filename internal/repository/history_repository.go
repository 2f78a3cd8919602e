package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

// HistoryRepository records and reads the ticket audit trail.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ownerID, ticketID string, limit int) ([]domain.TicketHistory, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository instantiates the repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, user_id, employee_id, action, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.OwnerID,
		entry.EmployeeID,
		entry.Action,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historyRepository) ListByTicket(ctx context.Context, ownerID, ticketID string, limit int) ([]domain.TicketHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, ticket_id, user_id, employee_id, action, description, created_at
        FROM ticket_history
        WHERE ticket_id=$1 AND user_id=$2
        ORDER BY created_at DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, ticketID, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistory
	for rows.Next() {
		var entry domain.TicketHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.OwnerID,
			&entry.EmployeeID,
			&entry.Action,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
