// AngelaMos | 2026
// repository.go

package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

const bookColumns = `id, title, author, description, created_by,
	       is_deleted, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, book *Book) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListBooksParams) ([]Book, int, error)
	AddFavorite(ctx context.Context, userID, bookID string) (bool, error)
	RemoveFavorite(ctx context.Context, userID, bookID string) error
	ListFavoriteBooks(ctx context.Context, userID string) ([]Book, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (
			id, title, author, description, created_by
		) VALUES (
			$1, $2, $3, $4, $5
		)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, book, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

// GetByID never returns soft-deleted rows.
func (r *repository) GetByID(ctx context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE id = $1 AND is_deleted = false`, bookColumns)

	var book Book
	err := r.db.GetContext(ctx, &book, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

func (r *repository) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, description = $4, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
		RETURNING updated_at`

	err := r.db.GetContext(ctx, book, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update book: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	return nil
}

// SoftDelete flips the deletion flag. The row stays behind for audit
// and for reviews that reference it.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE books
		SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete book: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "is_deleted = false")

	like := func(column, value string) {
		conditions = append(conditions, fmt.Sprintf(
			"%s ILIKE $%d", column, argIdx))
		args = append(args, "%"+escapeLike(value)+"%")
		argIdx++
	}

	if params.Title != "" {
		like("title", params.Title)
	}
	if params.Author != "" {
		like("author", params.Author)
	}
	if params.Description != "" {
		like("description", params.Description)
	}

	if params.CreatedBy != "" {
		conditions = append(
			conditions,
			fmt.Sprintf("created_by = $%d", argIdx),
		)
		args = append(args, params.CreatedBy)
		argIdx++
	}

	dateRange := func(column string, after, before *time.Time) {
		if after != nil {
			conditions = append(
				conditions,
				fmt.Sprintf("%s >= $%d", column, argIdx),
			)
			args = append(args, *after)
			argIdx++
		}
		if before != nil {
			conditions = append(
				conditions,
				fmt.Sprintf("%s <= $%d", column, argIdx),
			)
			args = append(args, *before)
			argIdx++
		}
	}

	dateRange("created_at", params.CreatedAfter, params.CreatedBefore)
	dateRange("updated_at", params.UpdatedAfter, params.UpdatedBefore)

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM books WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		bookColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var books []Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return books, total, nil
}

// AddFavorite reports whether a new row was inserted. A repeated
// favorite is absorbed by the unique pair constraint.
func (r *repository) AddFavorite(
	ctx context.Context,
	userID, bookID string,
) (bool, error) {
	query := `
		INSERT INTO favorites (id, user_id, book_id)
		VALUES (gen_random_uuid(), $1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) RemoveFavorite(
	ctx context.Context,
	userID, bookID string,
) error {
	query := `
		DELETE FROM favorites
		WHERE user_id = $1 AND book_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, bookID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove favorite: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListFavoriteBooks(
	ctx context.Context,
	userID string,
) ([]Book, error) {
	query := `
		SELECT b.id, b.title, b.author, b.description, b.created_by,
		       b.is_deleted, b.created_at, b.updated_at
		FROM books b
		JOIN favorites f ON f.book_id = b.id
		WHERE f.user_id = $1 AND b.is_deleted = false
		ORDER BY f.created_at DESC`

	var books []Book
	if err := r.db.SelectContext(ctx, &books, query, userID); err != nil {
		return nil, fmt.Errorf("list favorite books: %w", err)
	}

	return books, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
