package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loga115/ticketflow/internal/domain"
)

// CommentRepository handles persistence for ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.TicketComment) error
	UpdateContent(ctx context.Context, ownerID, ticketID, id, content string) (*domain.TicketComment, error)
	Delete(ctx context.Context, ownerID, ticketID, id string) error
	ListByTicket(ctx context.Context, ownerID, ticketID string) ([]domain.TicketComment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.TicketComment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, user_id, employee_id, content, is_internal)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.OwnerID,
		comment.EmployeeID,
		comment.Content,
		comment.Internal,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) UpdateContent(ctx context.Context, ownerID, ticketID, id, content string) (*domain.TicketComment, error) {
	const query = `
        UPDATE ticket_comments SET content=$1, updated_at=NOW()
        WHERE id=$2 AND ticket_id=$3 AND user_id=$4
        RETURNING id, ticket_id, user_id, employee_id, content, is_internal, created_at, updated_at`
	var comment domain.TicketComment
	if err := r.pool.QueryRow(ctx, query, content, id, ticketID, ownerID).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.OwnerID,
		&comment.EmployeeID,
		&comment.Content,
		&comment.Internal,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, ownerID, ticketID, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM ticket_comments WHERE id=$1 AND ticket_id=$2 AND user_id=$3`, id, ticketID, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ownerID, ticketID string) ([]domain.TicketComment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, c.employee_id, e.name, c.content, c.is_internal,
               c.created_at, c.updated_at
        FROM ticket_comments c
        LEFT JOIN employees e ON e.id = c.employee_id
        WHERE c.ticket_id=$1 AND c.user_id=$2
        ORDER BY c.created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketComment
	for rows.Next() {
		var comment domain.TicketComment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.OwnerID,
			&comment.EmployeeID,
			&comment.EmployeeName,
			&comment.Content,
			&comment.Internal,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
