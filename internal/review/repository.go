// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

const opinionColumns = `id, book_id, user_id, rating, comment, created_at`

type Repository interface {
	Create(ctx context.Context, opinion *Opinion) error
	List(ctx context.Context, params ListReviewsParams) ([]Opinion, int, error)
	BookExists(ctx context.Context, bookID string) (bool, error)
	AverageRatings(ctx context.Context) ([]AverageRating, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the opinion and revalidates the book inside one
// transaction, so a concurrent soft-delete cannot slip a review onto a
// dead book between the service's existence check and the insert.
func (r *repository) Create(ctx context.Context, opinion *Opinion) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var live bool
		existsQuery := `
			SELECT EXISTS(
				SELECT 1 FROM books
				WHERE id = $1 AND is_deleted = false
			)`
		if err := tx.GetContext(ctx, &live, existsQuery, opinion.BookID); err != nil {
			return fmt.Errorf("check book: %w", err)
		}
		if !live {
			return core.ErrNotFound
		}

		insertQuery := `
			INSERT INTO opinions (
				id, book_id, user_id, rating, comment
			) VALUES (
				$1, $2, $3, $4, $5
			)
			RETURNING created_at`

		return tx.GetContext(ctx, opinion, insertQuery,
			opinion.ID,
			opinion.BookID,
			opinion.UserID,
			opinion.Rating,
			opinion.Comment,
		)
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create opinion: %w", core.ErrDuplicateKey)
		}
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("create opinion: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create opinion: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListReviewsParams,
) ([]Opinion, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Book != "" {
		conditions = append(conditions, fmt.Sprintf("book_id = $%d", argIdx))
		args = append(args, params.Book)
		argIdx++
	}

	if params.User != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, params.User)
		argIdx++
	}

	if params.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIdx))
		args = append(args, *params.MinRating)
		argIdx++
	}

	if params.MaxRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating <= $%d", argIdx))
		args = append(args, *params.MaxRating)
		argIdx++
	}

	if params.Comment != "" {
		conditions = append(conditions, fmt.Sprintf("comment ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Comment)+"%")
		argIdx++
	}

	if params.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.CreatedAfter)
		argIdx++
	}

	if params.CreatedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.CreatedBefore)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM opinions WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count opinions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM opinions
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		opinionColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var opinions []Opinion
	if err := r.db.SelectContext(ctx, &opinions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list opinions: %w", err)
	}

	return opinions, total, nil
}

func (r *repository) BookExists(
	ctx context.Context,
	bookID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM books
			WHERE id = $1 AND is_deleted = false
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, bookID); err != nil {
		return false, fmt.Errorf("check book exists: %w", err)
	}

	return exists, nil
}

// AverageRatings covers every live book. The LEFT JOIN keeps unrated
// books in the result with a zero average.
func (r *repository) AverageRatings(
	ctx context.Context,
) ([]AverageRating, error) {
	query := `
		SELECT b.id, COALESCE(AVG(o.rating), 0) AS average_rating
		FROM books b
		LEFT JOIN opinions o ON o.book_id = b.id
		WHERE b.is_deleted = false
		GROUP BY b.id
		ORDER BY b.id`

	var ratings []AverageRating
	if err := r.db.SelectContext(ctx, &ratings, query); err != nil {
		return nil, fmt.Errorf("average ratings: %w", err)
	}

	return ratings, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
