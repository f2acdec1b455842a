// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

// ErrDuplicateReview is returned when a user already has an opinion on
// the book.
var ErrDuplicateReview = errors.New("user already reviewed this book")

const averageRatingsKey = "average_ratings"

type Service struct {
	repo       Repository
	cache      core.Cache
	ratingsTTL time.Duration
}

func NewService(
	repo Repository,
	cache core.Cache,
	ratingsTTL time.Duration,
) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		ratingsTTL: ratingsTTL,
	}
}

func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateReviewRequest,
) (*ReviewResponse, error) {
	if actorID == "" {
		return nil, fmt.Errorf("create review: %w", core.ErrUnauthorized)
	}

	if req.Rating < 0 || req.Rating > 5 {
		return nil, fmt.Errorf("create review: %w", core.ErrInvalidInput)
	}

	exists, err := s.repo.BookExists(ctx, req.Book)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("create review: %w", core.ErrNotFound)
	}

	opinion := &Opinion{
		ID:      uuid.New().String(),
		BookID:  req.Book,
		UserID:  actorID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	err = s.repo.Create(ctx, opinion)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, fmt.Errorf("create review: %w", ErrDuplicateReview)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateAverages(ctx)

	resp := ToReviewResponse(opinion)
	return &resp, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListReviewsParams,
) (*ReviewListResponse, error) {
	opinions, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &ReviewListResponse{
		Reviews: ToReviewResponseList(opinions),
		Total:   total,
	}, nil
}

// AverageRatings serves the shared aggregate from cache when fresh.
// The cache holds one global entry so every reader shares the same
// short-lived snapshot.
func (s *Service) AverageRatings(ctx context.Context) ([]AverageRating, error) {
	var cached []AverageRating
	hit, err := s.cache.Get(ctx, averageRatingsKey, &cached)
	if err != nil {
		slog.Warn("average ratings cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	ratings, err := s.repo.AverageRatings(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, averageRatingsKey, ratings, s.ratingsTTL); err != nil {
		slog.Warn("average ratings cache write failed", "error", err)
	}

	return ratings, nil
}

func (s *Service) invalidateAverages(ctx context.Context) {
	if err := s.cache.Delete(ctx, averageRatingsKey); err != nil {
		slog.Warn("average ratings cache invalidation failed", "error", err)
	}
}
