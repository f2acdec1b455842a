// AngelaMos | 2026
// handler.go

package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bookcatalog/internal/core"
	"github.com/carterperez-dev/bookcatalog/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Get("/favorites", h.ListFavorites)
			r.Put("/{bookID}", h.Update)
			r.Patch("/{bookID}", h.Update)
			r.Delete("/{bookID}", h.Delete)
			r.Post("/{bookID}/favorite", h.Favorite)
			r.Post("/{bookID}/unfavorite", h.Unfavorite)
		})

		r.Get("/{bookID}", h.Get)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, fields := parseListParams(r)
	if len(fields) > 0 {
		core.ValidationFailed(w, fields)
		return
	}

	resp, err := h.service.List(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "bookID"),
		req,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "bookID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.Favorite(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "bookID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if created {
		core.Created(w, FavoriteStatusResponse{Status: "book marked as favorite"})
		return
	}

	core.OK(w, FavoriteStatusResponse{Status: "book already marked as favorite"})
}

func (h *Handler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unfavorite(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "bookID"),
	)
	if err != nil {
		if errors.Is(err, ErrNotFavorited) {
			core.BadRequest(w, "book was not marked as favorite")
			return
		}
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListFavorites(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, BookListResponse{Books: books, Total: len(books)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "book")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "you do not have permission to modify this book")
	default:
		core.InternalServerError(w, err)
	}
}

func parseListParams(r *http.Request) (ListBooksParams, core.FieldErrors) {
	q := r.URL.Query()
	fields := core.FieldErrors{}

	params := ListBooksParams{
		Title:       q.Get("title"),
		Author:      q.Get("author"),
		Description: q.Get("description"),
		CreatedBy:   q.Get("created_by"),
	}

	// The original API exposed the owner filter as "user"; both names
	// are accepted.
	if params.CreatedBy == "" {
		params.CreatedBy = q.Get("user")
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			fields.Add("page", "must be an integer")
		} else {
			params.Page = page
		}
	}

	if v := q.Get("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			fields.Add("page_size", "must be an integer")
		} else {
			params.PageSize = size
		}
	}

	timeParam := func(name string) *time.Time {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		t, err := parseTime(v)
		if err != nil {
			fields.Add(name, "must be an RFC 3339 timestamp or date")
			return nil
		}
		return &t
	}

	params.CreatedAfter = timeParam("created_at_after")
	params.CreatedBefore = timeParam("created_at_before")
	params.UpdatedAfter = timeParam("updated_at_after")
	params.UpdatedBefore = timeParam("updated_at_before")

	if len(fields) == 0 {
		fields = nil
	}
	return params, fields
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
