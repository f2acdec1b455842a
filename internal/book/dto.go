// AngelaMos | 2026
// dto.go

package book

import "time"

type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Author      string `json:"author" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
}

type UpdateBookRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Author      *string `json:"author" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1"`
}

type BookResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BookListResponse struct {
	Books []BookResponse `json:"books"`
	Total int            `json:"total"`
}

type FavoriteStatusResponse struct {
	Status string `json:"status"`
}

type ListBooksParams struct {
	Page          int
	PageSize      int
	Title         string
	Author        string
	Description   string
	CreatedBy     string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

func (p *ListBooksParams) Normalize() {
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

func (p *ListBooksParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToBookResponse(b *Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func ToBookResponseList(books []Book) []BookResponse {
	responses := make([]BookResponse, 0, len(books))
	for _, b := range books {
		responses = append(responses, ToBookResponse(&b))
	}
	return responses
}
