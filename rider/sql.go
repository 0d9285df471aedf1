package rider

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("rider not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByAuthID(ctx context.Context, authID string) (*Rider, error) {
	var rider Rider
	err := r.db.GetContext(ctx, &rider, getByAuthIDQuery, authID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rider, nil
}

const getByAuthIDQuery = `SELECT * FROM riders WHERE auth_id = $1`

// Create provisions a rider row for a subject seen for the first time.
// Email and name may be empty when the identity provider did not share
// them. Two first requests for the same subject can race here; the
// insert yields to whichever row landed first and the loser reads it
// back, so both callers get the same rider.
func (r *Repository) Create(ctx context.Context, authID, email, name string) (*Rider, error) {
	var rider Rider
	err := r.db.GetContext(ctx, &rider, createQuery, uuid.New(), authID, email, name)
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetByAuthID(ctx, authID)
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

const createQuery = `
INSERT INTO riders (id, auth_id, email, name, created_at)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), now())
ON CONFLICT (auth_id) DO NOTHING
RETURNING *
`

func (r *Repository) UpdateProfile(ctx context.Context, authID, email, name string) error {
	_, err := r.db.ExecContext(ctx, updateProfileQuery, email, name, authID)
	return err
}

const updateProfileQuery = `UPDATE riders SET email = NULLIF($1, ''), name = NULLIF($2, '') WHERE auth_id = $3`
