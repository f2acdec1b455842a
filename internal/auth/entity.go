// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is the durable opaque bearer token for a user. One row per
// user: logging in again returns the existing key instead of minting a
// new one, and logout deletes the row.
type Session struct {
	Key       string    `db:"key"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
