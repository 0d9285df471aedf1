package contact

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("contact not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByRider(ctx context.Context, riderID uuid.UUID) ([]Contact, error) {
	contacts := []Contact{}
	err := r.db.SelectContext(ctx, &contacts, listByRiderQuery, riderID)
	return contacts, err
}

const listByRiderQuery = `SELECT * FROM emergency_contacts WHERE rider_id = $1 ORDER BY created_at ASC`

func (r *Repository) Add(ctx context.Context, riderID uuid.UUID, name, email, relation, phone string) (Contact, error) {
	var c Contact
	err := r.db.GetContext(ctx, &c, addQuery, uuid.New(), riderID, name, email, relation, phone)
	return c, err
}

const addQuery = `
INSERT INTO emergency_contacts (id, rider_id, name, email, relation, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING *
`

// Update rewrites a contact. The rider id is part of the predicate so a
// rider can only touch their own contacts.
func (r *Repository) Update(ctx context.Context, id, riderID uuid.UUID, name, email, relation, phone string) (Contact, error) {
	var c Contact
	err := r.db.GetContext(ctx, &c, updateQuery, id, riderID, name, email, relation, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	return c, err
}

const updateQuery = `
UPDATE emergency_contacts
SET name = $3, email = $4, relation = $5, phone = $6
WHERE id = $1 AND rider_id = $2
RETURNING *
`

func (r *Repository) Delete(ctx context.Context, id, riderID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteQuery, id, riderID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteQuery = `DELETE FROM emergency_contacts WHERE id = $1 AND rider_id = $2`
