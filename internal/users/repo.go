package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/shared"
)

// Repository defines persistence for user accounts.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	ListByUnit(ctx context.Context, unitID int64) ([]User, error)
	ListByRole(ctx context.Context, role rbac.Role) ([]User, error)
	Search(ctx context.Context, keyword string) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Deactivate(ctx context.Context, id int64) error
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PGRepository)(nil)

// NewRepository constructs a PGRepository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `u.id, u.username, u.email, u.full_name, u.password_hash,
	u.role, COALESCE(u.unit_id, 0), COALESCE(un.name, ''),
	COALESCE(u.phone_number, ''), COALESCE(u.avatar_url, ''), u.is_active,
	u.created_at, u.updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Role, &u.UnitID, &u.UnitName, &u.PhoneNumber, &u.AvatarURL,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// List returns every account, active or not, ordered by id.
func (r *PGRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u LEFT JOIN units un ON un.id = u.unit_id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListByUnit returns accounts belonging to one unit, ordered by id.
func (r *PGRepository) ListByUnit(ctx context.Context, unitID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.unit_id = $1
		ORDER BY u.id`, unitID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListByRole returns accounts holding one role, ordered by id.
func (r *PGRepository) ListByRole(ctx context.Context, role rbac.Role) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.role = $1
		ORDER BY u.id`, role)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// Search matches the keyword case-insensitively against full name,
// username and email.
func (r *PGRepository) Search(ctx context.Context, keyword string) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.full_name ILIKE '%' || $1 || '%'
		   OR u.username ILIKE '%' || $1 || '%'
		   OR u.email ILIKE '%' || $1 || '%'
		ORDER BY u.id`, keyword)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// FindByID returns one account or shared.ErrNotFound.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.id = $1`, id))
}

// FindByUsername returns one account or shared.ErrNotFound.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u LEFT JOIN units un ON un.id = u.unit_id
		WHERE u.username = $1`, username))
}

// Create inserts a new account and fills in the generated id/timestamps.
// Unique-constraint violations on username or email surface as
// shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, role, unit_id,
			phone_number, avatar_url, is_active)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), NULLIF($7, ''), NULLIF($8, ''), $9)
		RETURNING id, created_at, updated_at`,
		user.Username, user.Email, user.FullName, user.PasswordHash,
		user.Role, user.UnitID, user.PhoneNumber, user.AvatarURL, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapConstraint(err)
}

// Update rewrites the mutable profile fields.
func (r *PGRepository) Update(ctx context.Context, user *User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, full_name = $3, role = $4, unit_id = NULLIF($5, 0),
		    phone_number = NULLIF($6, ''), avatar_url = NULLIF($7, ''),
		    is_active = $8, updated_at = now()
		WHERE id = $1`,
		user.ID, user.Email, user.FullName, user.Role, user.UnitID,
		user.PhoneNumber, user.AvatarURL, user.IsActive)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes an account. Rows are never removed so audit
// references stay resolvable.
func (r *PGRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
