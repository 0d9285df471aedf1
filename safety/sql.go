package safety

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Engage transitions the feature to Active at (lat, lng). Engaging an
// already-active feature just moves the recorded location; last write
// wins. The row is upserted so a bicycle with no prior state can be
// engaged directly.
func (r *Repository) Engage(ctx context.Context, f Feature, bicycleID uuid.UUID, lat, lng float64) (State, error) {
	var s State
	// The table name comes from the Feature enum, never from a caller.
	err := r.db.GetContext(ctx, &s, fmt.Sprintf(engageQuery, f.table()), bicycleID, lat, lng)
	return s, err
}

const engageQuery = `
INSERT INTO %s (bicycle_id, active, lat, lng)
VALUES ($1, true, $2, $3)
ON CONFLICT (bicycle_id) DO UPDATE SET active = true, lat = $2, lng = $3
RETURNING active, lat, lng
`

// Disengage transitions the feature to Inactive and clears the recorded
// location, so a later read can never surface the stale fix as current.
// Disengaging an inactive feature is a no-op.
func (r *Repository) Disengage(ctx context.Context, f Feature, bicycleID uuid.UUID) (State, error) {
	var s State
	err := r.db.GetContext(ctx, &s, fmt.Sprintf(disengageQuery, f.table()), bicycleID)
	return s, err
}

const disengageQuery = `
INSERT INTO %s (bicycle_id, active, lat, lng)
VALUES ($1, false, NULL, NULL)
ON CONFLICT (bicycle_id) DO UPDATE SET active = false, lat = NULL, lng = NULL
RETURNING active, lat, lng
`

// Status reads the feature's current state. A bicycle with no row yet is
// reported Inactive, never an error: safety features default off.
func (r *Repository) Status(ctx context.Context, f Feature, bicycleID uuid.UUID) (State, error) {
	var s State
	err := r.db.GetContext(ctx, &s, fmt.Sprintf(statusQuery, f.table()), bicycleID)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	return s, err
}

const statusQuery = `SELECT active, lat, lng FROM %s WHERE bicycle_id = $1`

// RecordImpact appends a device-reported impact. Severity and location
// are optional; not every detector reports them.
func (r *Repository) RecordImpact(ctx context.Context, bicycleID uuid.UUID, at *time.Time, severity, lat, lng *float64) (Impact, error) {
	var i Impact
	err := r.db.GetContext(ctx, &i, recordImpactQuery, bicycleID, at, severity, lat, lng)
	return i, err
}

const recordImpactQuery = `
INSERT INTO impact_events (bicycle_id, occurred_at, severity, lat, lng)
VALUES ($1, COALESCE($2, now()), $3, $4, $5)
RETURNING *
`

// ListImpacts returns the bicycle's impact log, most recent first.
func (r *Repository) ListImpacts(ctx context.Context, bicycleID uuid.UUID) ([]Impact, error) {
	impacts := []Impact{}
	err := r.db.SelectContext(ctx, &impacts, listImpactsQuery, bicycleID)
	return impacts, err
}

const listImpactsQuery = `
SELECT * FROM impact_events
WHERE bicycle_id = $1
ORDER BY occurred_at DESC, id DESC
`
