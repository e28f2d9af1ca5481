package units

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotowork/userservice/internal/shared"
)

// Repository defines persistence for organizational units.
type Repository interface {
	List(ctx context.Context) ([]Unit, error)
	ListRoots(ctx context.Context) ([]Unit, error)
	ListByParent(ctx context.Context, parentID int64) ([]Unit, error)
	Search(ctx context.Context, keyword string) ([]Unit, error)
	FindByID(ctx context.Context, id int64) (*Unit, error)
	FindByCode(ctx context.Context, code string) (*Unit, error)
	Create(ctx context.Context, unit *Unit) error
	Update(ctx context.Context, unit *Unit) error
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

const unitColumns = `id, code, name, COALESCE(parent_unit_id, 0),
	COALESCE(description, ''), COALESCE(address, ''), COALESCE(phone, ''),
	is_active, created_at, updated_at`

func scanUnit(row pgx.Row) (*Unit, error) {
	var u Unit
	err := row.Scan(&u.ID, &u.Code, &u.Name, &u.ParentUnitID, &u.Description,
		&u.Address, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUnits(rows pgx.Rows) ([]Unit, error) {
	defer rows.Close()
	var units []Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

// List returns every unit ordered by code.
func (r *PGRepository) List(ctx context.Context) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+unitColumns+` FROM units ORDER BY code`)
	if err != nil {
		return nil, err
	}
	return collectUnits(rows)
}

// ListRoots returns the units at the top of the hierarchy.
func (r *PGRepository) ListRoots(ctx context.Context) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+unitColumns+` FROM units WHERE parent_unit_id IS NULL ORDER BY code`)
	if err != nil {
		return nil, err
	}
	return collectUnits(rows)
}

// ListByParent returns the direct children of one unit.
func (r *PGRepository) ListByParent(ctx context.Context, parentID int64) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+unitColumns+` FROM units WHERE parent_unit_id = $1 ORDER BY code`, parentID)
	if err != nil {
		return nil, err
	}
	return collectUnits(rows)
}

// Search matches the keyword case-insensitively against name and code.
func (r *PGRepository) Search(ctx context.Context, keyword string) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+unitColumns+` FROM units
		WHERE name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%'
		ORDER BY code`, keyword)
	if err != nil {
		return nil, err
	}
	return collectUnits(rows)
}

// FindByID returns one unit or shared.ErrNotFound.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Unit, error) {
	return scanUnit(r.pool.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id))
}

// FindByCode returns one unit or shared.ErrNotFound.
func (r *PGRepository) FindByCode(ctx context.Context, code string) (*Unit, error) {
	return scanUnit(r.pool.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE code = $1`, code))
}

// Create inserts a unit; a duplicate code surfaces as shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, unit *Unit) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO units (code, name, parent_unit_id, description, address, phone, is_active)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		unit.Code, unit.Name, unit.ParentUnitID, unit.Description,
		unit.Address, unit.Phone, unit.IsActive,
	).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	return mapConstraint(err)
}

// Update rewrites the writable fields.
func (r *PGRepository) Update(ctx context.Context, unit *Unit) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE units
		SET code = $2, name = $3, parent_unit_id = NULLIF($4, 0),
		    description = $5, address = $6, phone = $7, is_active = $8,
		    updated_at = now()
		WHERE id = $1`,
		unit.ID, unit.Code, unit.Name, unit.ParentUnitID,
		unit.Description, unit.Address, unit.Phone, unit.IsActive)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a unit; member accounts keep their reference.
func (r *PGRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE units SET is_active = false, updated_at = now() WHERE id = $1`, id)
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
