// Package safety holds the per-bicycle safety state: the panic alert, the
// geofence lock, and the impact log. Panic alert and geofence lock are two
// independent copies of the same two-state machine — Inactive, or Active
// at a recorded location. Engaging one never touches the other.
package safety

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Feature selects which of the two state machines an operation targets.
type Feature int

const (
	// Panic is the rider- or device-triggered emergency alert.
	Panic Feature = iota
	// GeofenceLock is the remotely engaged lock tied to a location.
	GeofenceLock
)

func (f Feature) String() string {
	return [...]string{"panic", "geofence_lock"}[f]
}

func (f Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// table maps the feature to its singleton-row table. Both tables have the
// same shape; the feature is the only thing that varies between them.
func (f Feature) table() string {
	switch f {
	case Panic:
		return "panic_states"
	case GeofenceLock:
		return "geofence_states"
	}
	panic(fmt.Sprintf("unknown safety feature %d", int(f)))
}

// State is the current condition of one feature on one bicycle. While
// inactive the location is nil: a cleared state never leaks the fix that
// was recorded before it was disengaged. The zero value is the default
// for a bicycle nothing has ever been recorded against.
type State struct {
	Active bool
	Lat    *float64
	Lng    *float64
}

// Impact is one entry in the device-reported impact log.
type Impact struct {
	ID         int64
	BicycleID  uuid.UUID `db:"bicycle_id"`
	OccurredAt time.Time `db:"occurred_at"`
	Severity   *float64
	Lat        *float64
	Lng        *float64
}
