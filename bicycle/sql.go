package bicycle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound      = errors.New("bicycle not found")
	ErrDuplicateCode = errors.New("hardware code already registered")
	ErrAlreadyLinked = errors.New("bicycle already linked to another rider")
)

const uniqueViolation = "23505"

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Register creates a bicycle. New bicycles start inactive; ownerID may be
// nil for stock that has not been handed to a rider yet.
func (r *Repository) Register(ctx context.Context, name, hardwareCode string, ownerID *uuid.UUID) (Bicycle, error) {
	var b Bicycle
	err := r.db.GetContext(ctx, &b, registerQuery, uuid.New(), name, hardwareCode, ownerID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return Bicycle{}, ErrDuplicateCode
	}
	return b, err
}

const registerQuery = `
INSERT INTO bicycles (id, name, hardware_code, owner_id, active, created_at)
VALUES ($1, $2, $3, $4, false, now())
RETURNING *
`

// LinkByCode claims the bicycle carrying hardwareCode for riderID. The
// claim is a single conditional update, so two concurrent attempts on the
// same unlinked code cannot both succeed: whoever loses the race sees
// zero rows and is told the bicycle is already linked. Linking a bicycle
// the rider already owns is a no-op that returns the current record.
func (r *Repository) LinkByCode(ctx context.Context, hardwareCode string, riderID uuid.UUID) (Bicycle, error) {
	var b Bicycle
	err := r.db.GetContext(ctx, &b, linkByCodeQuery, hardwareCode, riderID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Bicycle{}, err
	}

	// Zero rows: either the code is unknown or somebody holds the link.
	b, err = r.GetByCode(ctx, hardwareCode)
	if err != nil {
		return Bicycle{}, err
	}
	if b.OwnerID != nil && *b.OwnerID == riderID {
		return b, nil
	}
	return Bicycle{}, ErrAlreadyLinked
}

const linkByCodeQuery = `
UPDATE bicycles SET owner_id = $2
WHERE hardware_code = $1 AND owner_id IS NULL
RETURNING *
`

// SetActive flips the activation flag. Setting the current value again is
// a no-op that still returns the record.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (Bicycle, error) {
	var b Bicycle
	err := r.db.GetContext(ctx, &b, setActiveQuery, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return Bicycle{}, ErrNotFound
	}
	return b, err
}

const setActiveQuery = `UPDATE bicycles SET active = $2 WHERE id = $1 RETURNING *`

// Reassign renames a bicycle and moves (or clears) its link in one
// stroke. Admin-only; the conditional claim in LinkByCode does not apply
// here.
func (r *Repository) Reassign(ctx context.Context, id uuid.UUID, name string, ownerID *uuid.UUID) (Bicycle, error) {
	var b Bicycle
	err := r.db.GetContext(ctx, &b, reassignQuery, id, name, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return Bicycle{}, ErrNotFound
	}
	return b, err
}

const reassignQuery = `UPDATE bicycles SET name = $2, owner_id = $3 WHERE id = $1 RETURNING *`

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Bicycle, error) {
	var b Bicycle
	err := r.db.GetContext(ctx, &b, getQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Bicycle{}, ErrNotFound
	}
	return b, err
}

const getQuery = `SELECT * FROM bicycles WHERE id = $1`

func (r *Repository) GetByCode(ctx context.Context, hardwareCode string) (Bicycle, error) {
	var b Bicycle
	err := r.db.GetContext(ctx, &b, getByCodeQuery, hardwareCode)
	if errors.Is(err, sql.ErrNoRows) {
		return Bicycle{}, ErrNotFound
	}
	return b, err
}

const getByCodeQuery = `SELECT * FROM bicycles WHERE hardware_code = $1`

// ListByOwner returns the rider's bicycles, oldest first. A rider with no
// bicycles gets an empty slice, not an error.
func (r *Repository) ListByOwner(ctx context.Context, riderID uuid.UUID) ([]Bicycle, error) {
	bicycles := []Bicycle{}
	err := r.db.SelectContext(ctx, &bicycles, listByOwnerQuery, riderID)
	return bicycles, err
}

const listByOwnerQuery = `SELECT * FROM bicycles WHERE owner_id = $1 ORDER BY created_at ASC`

// List returns the whole fleet for the admin surface.
func (r *Repository) List(ctx context.Context) ([]Bicycle, error) {
	bicycles := []Bicycle{}
	err := r.db.SelectContext(ctx, &bicycles, listQuery)
	return bicycles, err
}

const listQuery = `SELECT * FROM bicycles ORDER BY created_at ASC`
