package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence for audit events.
type Repository interface {
	Insert(ctx context.Context, event Event) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends an event to the audit trail.
func (r *PGRepository) Insert(ctx context.Context, event Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_events (user_id, username, action, outcome, detail, created_at)
		VALUES (NULLIF($1, 0), NULLIF($2, ''), $3, $4, $5, $6)`,
		event.UserID, event.Username, event.Action, event.Outcome, event.Detail, event.At,
	)
	return err
}

var _ Repository = (*PGRepository)(nil)
