// AngelaMos | 2026
// service_test.go

package book

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

type mockRepo struct {
	books     map[string]*Book
	favorites map[string]bool
	listCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		books:     make(map[string]*Book),
		favorites: make(map[string]bool),
	}
}

func favKey(userID, bookID string) string {
	return userID + "/" + bookID
}

func (m *mockRepo) Create(_ context.Context, book *Book) error {
	m.books[book.ID] = book
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Book, error) {
	b, ok := m.books[id]
	if !ok || b.IsDeleted {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, book *Book) error {
	existing, ok := m.books[book.ID]
	if !ok || existing.IsDeleted {
		return fmt.Errorf("update book: %w", core.ErrNotFound)
	}
	m.books[book.ID] = book
	return nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id string) error {
	b, ok := m.books[id]
	if !ok || b.IsDeleted {
		return fmt.Errorf("delete book: %w", core.ErrNotFound)
	}
	b.IsDeleted = true
	return nil
}

func (m *mockRepo) List(
	_ context.Context,
	_ ListBooksParams,
) ([]Book, int, error) {
	var books []Book
	for _, b := range m.books {
		if !b.IsDeleted {
			books = append(books, *b)
		}
	}
	return books, len(books), nil
}

func (m *mockRepo) AddFavorite(
	_ context.Context,
	userID, bookID string,
) (bool, error) {
	key := favKey(userID, bookID)
	if m.favorites[key] {
		return false, nil
	}
	m.favorites[key] = true
	return true, nil
}

func (m *mockRepo) RemoveFavorite(
	_ context.Context,
	userID, bookID string,
) error {
	key := favKey(userID, bookID)
	if !m.favorites[key] {
		return fmt.Errorf("remove favorite: %w", core.ErrNotFound)
	}
	delete(m.favorites, key)
	return nil
}

func (m *mockRepo) ListFavoriteBooks(
	_ context.Context,
	userID string,
) ([]Book, error) {
	m.listCalls++

	var books []Book
	for _, b := range m.books {
		if b.IsDeleted {
			continue
		}
		if m.favorites[favKey(userID, b.ID)] {
			books = append(books, *b)
		}
	}
	return books, nil
}

type mockCache struct {
	entries map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (c *mockCache) Get(
	_ context.Context,
	key string,
	dest any,
) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *mockCache) Set(
	_ context.Context,
	key string,
	value any,
	_ time.Duration,
) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, newMockCache(), 5*time.Minute)
}

func seedBook(repo *mockRepo, id, owner string) *Book {
	b := &Book{
		ID:          id,
		Title:       "The Go Programming Language",
		Author:      "Donovan & Kernighan",
		Description: "A reference",
		CreatedBy:   owner,
	}
	repo.books[id] = b
	return b
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the actor as owner", func(t *testing.T) {
		repo := newMockRepo()
		svc := newTestService(repo)

		resp, err := svc.Create(ctx, "user-1", CreateBookRequest{
			Title:       "Title",
			Author:      "Author",
			Description: "Description",
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", resp.CreatedBy)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("anonymous actor is rejected", func(t *testing.T) {
		svc := newTestService(newMockRepo())

		_, err := svc.Create(ctx, "", CreateBookRequest{
			Title:       "Title",
			Author:      "Author",
			Description: "Description",
		})
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can update, fields merge", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		title := "Renamed"
		resp, err := svc.Update(ctx, "user-1", "book-1", UpdateBookRequest{
			Title: &title,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Title)
		assert.Equal(t, "Donovan & Kernighan", resp.Author)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		title := "Renamed"
		_, err := svc.Update(ctx, "user-2", "book-1", UpdateBookRequest{
			Title: &title,
		})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("anonymous actor is unauthorized", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		title := "Renamed"
		_, err := svc.Update(ctx, "", "book-1", UpdateBookRequest{
			Title: &title,
		})
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner soft-deletes and the book disappears", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		require.NoError(t, svc.Delete(ctx, "user-1", "book-1"))

		_, err := svc.Get(ctx, "book-1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		err := svc.Delete(ctx, "user-2", "book-1")
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		require.NoError(t, svc.Delete(ctx, "user-1", "book-1"))
		err := svc.Delete(ctx, "user-1", "book-1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("first call creates, second is a no-op", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		created, err := svc.Favorite(ctx, "user-2", "book-1")
		require.NoError(t, err)
		assert.True(t, created)

		created, err = svc.Favorite(ctx, "user-2", "book-1")
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("favoriting a missing book fails", func(t *testing.T) {
		svc := newTestService(newMockRepo())

		_, err := svc.Favorite(ctx, "user-2", "nope")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("unfavoriting a non-favorite reports it", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		err := svc.Unfavorite(ctx, "user-2", "book-1")
		assert.ErrorIs(t, err, ErrNotFavorited)
	})

	t.Run("favorite then unfavorite roundtrip", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		_, err := svc.Favorite(ctx, "user-2", "book-1")
		require.NoError(t, err)
		require.NoError(t, svc.Unfavorite(ctx, "user-2", "book-1"))

		err = svc.Unfavorite(ctx, "user-2", "book-1")
		assert.ErrorIs(t, err, ErrNotFavorited)
	})
}

func TestListFavorites(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from cache on the second read", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		_, err := svc.Favorite(ctx, "user-2", "book-1")
		require.NoError(t, err)

		first, err := svc.ListFavorites(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := svc.ListFavorites(ctx, "user-2")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, repo.listCalls)
	})

	t.Run("toggle invalidates the cached list", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		seedBook(repo, "book-2", "user-1")
		svc := newTestService(repo)

		_, err := svc.Favorite(ctx, "user-2", "book-1")
		require.NoError(t, err)

		list, err := svc.ListFavorites(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, err = svc.Favorite(ctx, "user-2", "book-2")
		require.NoError(t, err)

		list, err = svc.ListFavorites(ctx, "user-2")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("soft-deleted books drop out of favorites", func(t *testing.T) {
		repo := newMockRepo()
		seedBook(repo, "book-1", "user-1")
		svc := newTestService(repo)

		_, err := svc.Favorite(ctx, "user-2", "book-1")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, "user-1", "book-1"))

		list, err := svc.ListFavorites(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("anonymous actor is unauthorized", func(t *testing.T) {
		svc := newTestService(newMockRepo())

		_, err := svc.ListFavorites(ctx, "")
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}
