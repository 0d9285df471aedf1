// Package contact stores a rider's emergency contacts, the people the
// product notifies when a panic alert or impact fires.
package contact

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID      uuid.UUID
	RiderID uuid.UUID `db:"rider_id"`
	Name    string
	Email   string
	// Relation describes how the contact relates to the rider
	// (e.g. "parent", "partner").
	Relation  string
	Phone     string
	CreatedAt time.Time `db:"created_at"`
}
