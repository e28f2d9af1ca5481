package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotowork/userservice/internal/shared"
)

// Repository defines the persistence operations the auth module needs.
// Active filtering happens in SQL so inactive accounts behave exactly like
// missing ones.
type Repository interface {
	FindActiveByUsername(ctx context.Context, username string) (*User, error)
	FindActiveByID(ctx context.Context, id int64) (*User, error)
	ExistsActiveByID(ctx context.Context, id int64) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `u.id, u.username, u.email, u.full_name, u.password_hash, u.role,
	COALESCE(u.unit_id, 0), COALESCE(un.name, ''), u.is_active, u.created_at, u.updated_at`

// FindActiveByUsername fetches an active user by username.
func (r *PGRepository) FindActiveByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.username = $1 AND u.is_active`, username)
	return scanUser(row)
}

// FindActiveByID fetches an active user by id.
func (r *PGRepository) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.id = $1 AND u.is_active`, id)
	return scanUser(row)
}

// ExistsActiveByID reports whether an active account with the id exists.
func (r *PGRepository) ExistsActiveByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_active)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Role, &u.UnitID, &u.UnitName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
