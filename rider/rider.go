// Package rider maps authenticated subjects to rider accounts.
package rider

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Rider struct {
	ID uuid.UUID
	// AuthID is the subject claim of the identity provider's token.
	AuthID    string         `db:"auth_id"`
	Email     sql.NullString
	Name      sql.NullString
	CreatedAt time.Time `db:"created_at"`
}
