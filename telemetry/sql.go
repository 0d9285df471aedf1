package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNoData means the bicycle exists but has never reported. Callers that
// also resolve the bicycle can tell this apart from a missing bicycle.
var ErrNoData = errors.New("no position reports")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Record appends a report. When the device did not stamp the fix, at is
// nil and the store assigns the time of receipt.
func (r *Repository) Record(ctx context.Context, bicycleID uuid.UUID, lat, lng float64, at *time.Time) (Report, error) {
	var rep Report
	err := r.db.GetContext(ctx, &rep, recordQuery, bicycleID, lat, lng, at)
	return rep, err
}

const recordQuery = `
INSERT INTO position_reports (bicycle_id, lat, lng, reported_at)
VALUES ($1, $2, $3, COALESCE($4, now()))
RETURNING *
`

// Current returns the report with the latest timestamp, ties broken by
// insertion order.
func (r *Repository) Current(ctx context.Context, bicycleID uuid.UUID) (Report, error) {
	var rep Report
	err := r.db.GetContext(ctx, &rep, currentQuery, bicycleID)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNoData
	}
	return rep, err
}

const currentQuery = `
SELECT * FROM position_reports
WHERE bicycle_id = $1
ORDER BY reported_at DESC, id DESC
LIMIT 1
`

// History returns the most recent reports, newest first. The limit is
// clamped; see pageSize.
func (r *Repository) History(ctx context.Context, bicycleID uuid.UUID, limit int) ([]Report, error) {
	reports := []Report{}
	err := r.db.SelectContext(ctx, &reports, historyQuery, bicycleID, pageSize(limit))
	return reports, err
}

const historyQuery = `
SELECT * FROM position_reports
WHERE bicycle_id = $1
ORDER BY reported_at DESC, id DESC
LIMIT $2
`
