// AngelaMos | 2026
// service.go

package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookcatalog/internal/authz"
	"github.com/carterperez-dev/bookcatalog/internal/core"
)

// ErrNotFavorited is returned when a user tries to unfavorite a book
// that is not in their favorites.
var ErrNotFavorited = errors.New("book is not favorited")

type Service struct {
	repo         Repository
	cache        core.Cache
	favoritesTTL time.Duration
}

func NewService(
	repo Repository,
	cache core.Cache,
	favoritesTTL time.Duration,
) *Service {
	return &Service{
		repo:         repo,
		cache:        cache,
		favoritesTTL: favoritesTTL,
	}
}

func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateBookRequest,
) (*BookResponse, error) {
	if actorID == "" {
		return nil, fmt.Errorf("create book: %w", core.ErrUnauthorized)
	}

	book := &Book{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CreatedBy:   actorID,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	resp := ToBookResponse(book)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*BookResponse, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToBookResponse(book)
	return &resp, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListBooksParams,
) (*BookListResponse, error) {
	books, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &BookListResponse{
		Books: ToBookResponseList(books),
		Total: total,
	}, nil
}

func (s *Service) Update(
	ctx context.Context,
	actorID, id string,
	req UpdateBookRequest,
) (*BookResponse, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.CanMutate(actorID, book); err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Description != nil {
		book.Description = *req.Description
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	resp := ToBookResponse(book)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.CanMutate(actorID, book); err != nil {
		return err
	}

	return s.repo.SoftDelete(ctx, id)
}

// Favorite marks a book as a favorite of the acting user. It reports
// whether the mark is new so the handler can distinguish a fresh
// favorite from a repeat.
func (s *Service) Favorite(
	ctx context.Context,
	actorID, bookID string,
) (bool, error) {
	if actorID == "" {
		return false, fmt.Errorf("favorite book: %w", core.ErrUnauthorized)
	}

	if _, err := s.repo.GetByID(ctx, bookID); err != nil {
		return false, err
	}

	created, err := s.repo.AddFavorite(ctx, actorID, bookID)
	if err != nil {
		return false, err
	}

	if created {
		s.invalidateFavorites(ctx, actorID)
	}

	return created, nil
}

func (s *Service) Unfavorite(ctx context.Context, actorID, bookID string) error {
	if actorID == "" {
		return fmt.Errorf("unfavorite book: %w", core.ErrUnauthorized)
	}

	if _, err := s.repo.GetByID(ctx, bookID); err != nil {
		return err
	}

	err := s.repo.RemoveFavorite(ctx, actorID, bookID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("unfavorite book: %w", ErrNotFavorited)
	}
	if err != nil {
		return err
	}

	s.invalidateFavorites(ctx, actorID)
	return nil
}

// ListFavorites serves from the per-user cache when it can. Cache
// failures are logged and fall through to the database.
func (s *Service) ListFavorites(
	ctx context.Context,
	actorID string,
) ([]BookResponse, error) {
	if actorID == "" {
		return nil, fmt.Errorf("list favorites: %w", core.ErrUnauthorized)
	}

	key := favoritesKey(actorID)

	var cached []BookResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("favorites cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	books, err := s.repo.ListFavoriteBooks(ctx, actorID)
	if err != nil {
		return nil, err
	}

	responses := ToBookResponseList(books)

	if err := s.cache.Set(ctx, key, responses, s.favoritesTTL); err != nil {
		slog.Warn("favorites cache write failed", "error", err)
	}

	return responses, nil
}

func (s *Service) invalidateFavorites(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, favoritesKey(userID)); err != nil {
		slog.Warn("favorites cache invalidation failed", "error", err)
	}
}

func favoritesKey(userID string) string {
	return "favorites:user:" + userID
}
