// AngelaMos | 2026
// entity.go

package review

import "time"

// Opinion is a single user's rating and comment on a book. At most one
// opinion exists per (book, user) pair.
type Opinion struct {
	ID        string    `db:"id"`
	BookID    string    `db:"book_id"`
	UserID    string    `db:"user_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}
