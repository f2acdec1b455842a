// AngelaMos | 2026
// dto.go

package review

import "time"

type CreateReviewRequest struct {
	Book    string `json:"book" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"gte=0,lte=5"`
	Comment string `json:"comment" validate:"max=100"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	Book      string    `json:"book"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int              `json:"total"`
}

// AverageRating pairs a book with the mean of its ratings. Books with
// no opinions report zero.
type AverageRating struct {
	ID            string  `db:"id" json:"id"`
	AverageRating float64 `db:"average_rating" json:"average_rating"`
}

type ListReviewsParams struct {
	Page          int
	PageSize      int
	Book          string
	User          string
	MinRating     *int
	MaxRating     *int
	Comment       string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (p *ListReviewsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListReviewsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToReviewResponse(o *Opinion) ReviewResponse {
	return ReviewResponse{
		ID:        o.ID,
		Book:      o.BookID,
		User:      o.UserID,
		Rating:    o.Rating,
		Comment:   o.Comment,
		CreatedAt: o.CreatedAt,
	}
}

func ToReviewResponseList(opinions []Opinion) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(opinions))
	for _, o := range opinions {
		responses = append(responses, ToReviewResponse(&o))
	}
	return responses
}
