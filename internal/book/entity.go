// AngelaMos | 2026
// entity.go

package book

import "time"

type Book struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Author      string    `db:"author"`
	Description string    `db:"description"`
	CreatedBy   string    `db:"created_by"`
	IsDeleted   bool      `db:"is_deleted"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// OwnerID satisfies authz.Owned.
func (b *Book) OwnerID() string {
	return b.CreatedBy
}

type Favorite struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	BookID    string    `db:"book_id"`
	CreatedAt time.Time `db:"created_at"`
}
