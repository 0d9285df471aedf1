// Package telemetry is the append-only log of GPS fixes per bicycle.
package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Report is one GPS fix. Reports are immutable once stored; the log keeps
// every report it receives, including identical repeats.
type Report struct {
	ID         int64
	BicycleID  uuid.UUID `db:"bicycle_id"`
	Lat        float64
	Lng        float64
	ReportedAt time.Time `db:"reported_at"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// pageSize clamps a caller-supplied history limit. Non-positive values
// fall back to the default rather than erroring or returning nothing.
func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
