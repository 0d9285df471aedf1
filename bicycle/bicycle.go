// Package bicycle owns the bicycle entity: identity, the link to the
// owning rider, and the activation flag. Safety state and telemetry are
// only meaningful for bicycles that exist here.
package bicycle

import (
	"time"

	"github.com/google/uuid"
)

// Bicycle is the tracked physical asset.
type Bicycle struct {
	// ID is the internal identifier for a bicycle.
	ID uuid.UUID
	// Name is the owner-facing display name (e.g. "Commuter").
	Name string
	// HardwareCode is the manufacturer-assigned code printed on the
	// tracking unit. It is used exactly once to link a device to a
	// rider account and is unique across the fleet.
	HardwareCode string `db:"hardware_code"`

	// OwnerID is nil until the bicycle has been linked.
	OwnerID *uuid.UUID `db:"owner_id"`

	Active bool

	CreatedAt time.Time `db:"created_at"`
}
