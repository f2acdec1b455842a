// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindByKey(ctx context.Context, key string) (*Session, error)
	FindByUserID(ctx context.Context, userID string) (*Session, error)
	DeleteByKey(ctx context.Context, key string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &session.CreatedAt, query,
		session.Key,
		session.UserID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create session: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByKey(
	ctx context.Context,
	key string,
) (*Session, error) {
	query := `
		SELECT key, user_id, created_at
		FROM auth_tokens
		WHERE key = $1`

	var session Session
	err := r.db.GetContext(ctx, &session, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *repository) FindByUserID(
	ctx context.Context,
	userID string,
) (*Session, error) {
	query := `
		SELECT key, user_id, created_at
		FROM auth_tokens
		WHERE user_id = $1`

	var session Session
	err := r.db.GetContext(ctx, &session, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session by user: %w", err)
	}

	return &session, nil
}

func (r *repository) DeleteByKey(ctx context.Context, key string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE key = $1`

	result, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete session: %w", core.ErrNotFound)
	}

	return nil
}
