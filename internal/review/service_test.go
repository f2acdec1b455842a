// AngelaMos | 2026
// service_test.go

package review

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
	opinions     map[string]*Opinion
	books        map[string]bool
	averageCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		opinions: make(map[string]*Opinion),
		books:    make(map[string]bool),
	}
}

func pairKey(bookID, userID string) string {
	return bookID + "/" + userID
}

func (m *mockRepo) Create(_ context.Context, opinion *Opinion) error {
	key := pairKey(opinion.BookID, opinion.UserID)
	if _, ok := m.opinions[key]; ok {
		return fmt.Errorf("create opinion: %w", core.ErrDuplicateKey)
	}
	m.opinions[key] = opinion
	return nil
}

func (m *mockRepo) List(
	_ context.Context,
	_ ListReviewsParams,
) ([]Opinion, int, error) {
	var opinions []Opinion
	for _, o := range m.opinions {
		opinions = append(opinions, *o)
	}
	return opinions, len(opinions), nil
}

func (m *mockRepo) BookExists(_ context.Context, bookID string) (bool, error) {
	return m.books[bookID], nil
}

func (m *mockRepo) AverageRatings(_ context.Context) ([]AverageRating, error) {
	m.averageCalls++

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, o := range m.opinions {
		sums[o.BookID] += o.Rating
		counts[o.BookID]++
	}

	var ratings []AverageRating
	for bookID, live := range m.books {
		if !live {
			continue
		}
		avg := 0.0
		if counts[bookID] > 0 {
			avg = float64(sums[bookID]) / float64(counts[bookID])
		}
		ratings = append(ratings, AverageRating{
			ID:            bookID,
			AverageRating: avg,
		})
	}
	return ratings, nil
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
	return NewService(repo, newMockCache(), time.Minute)
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the opinion", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		resp, err := svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:    "book-1",
			Rating:  4,
			Comment: "good read",
		})
		require.NoError(t, err)
		assert.Equal(t, "book-1", resp.Book)
		assert.Equal(t, "user-1", resp.User)
		assert.Equal(t, 4, resp.Rating)
	})

	t.Run("second opinion on the same book is a conflict", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		_, err := svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: 4,
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: 2,
		})
		assert.ErrorIs(t, err, ErrDuplicateReview)
	})

	t.Run("different users may rate the same book", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		_, err := svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: 4,
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, "user-2", CreateReviewRequest{
			Book:   "book-1",
			Rating: 2,
		})
		assert.NoError(t, err)
	})

	t.Run("missing or deleted book is not found", func(t *testing.T) {
		svc := newTestService(newMockRepo())

		_, err := svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "ghost",
			Rating: 3,
		})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("rating outside 0..5 is invalid", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		_, err := svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: 6,
		})
		assert.ErrorIs(t, err, core.ErrInvalidInput)

		_, err = svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: -1,
		})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("anonymous actor is unauthorized", func(t *testing.T) {
		svc := newTestService(newMockRepo())

		_, err := svc.Create(ctx, "", CreateReviewRequest{
			Book:   "book-1",
			Rating: 3,
		})
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestAverageRatings(t *testing.T) {
	ctx := context.Background()

	t.Run("unrated book averages zero", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		ratings, err := svc.AverageRatings(ctx)
		require.NoError(t, err)
		require.Len(t, ratings, 1)
		assert.Equal(t, 0.0, ratings[0].AverageRating)
	})

	t.Run("averages the opinions", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		_, err := svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: 3,
		})
		require.NoError(t, err)
		_, err = svc.Create(ctx, "user-2", CreateReviewRequest{
			Book:   "book-1",
			Rating: 5,
		})
		require.NoError(t, err)

		ratings, err := svc.AverageRatings(ctx)
		require.NoError(t, err)
		require.Len(t, ratings, 1)
		assert.InDelta(t, 4.0, ratings[0].AverageRating, 0.001)
	})

	t.Run("serves from cache until a new review lands", func(t *testing.T) {
		repo := newMockRepo()
		repo.books["book-1"] = true
		svc := newTestService(repo)

		_, err := svc.AverageRatings(ctx)
		require.NoError(t, err)
		_, err = svc.AverageRatings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.averageCalls)

		_, err = svc.Create(ctx, "user-1", CreateReviewRequest{
			Book:   "book-1",
			Rating: 5,
		})
		require.NoError(t, err)

		ratings, err := svc.AverageRatings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.averageCalls)
		require.Len(t, ratings, 1)
		assert.InDelta(t, 5.0, ratings[0].AverageRating, 0.001)
	})
}
