// AngelaMos | 2026
// handler.go

package review

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
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/average-ratings", h.AverageRatings)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
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
		switch {
		case errors.Is(err, ErrDuplicateReview):
			core.JSONError(w, core.NewAppError(
				core.ErrConflict,
				"you have already reviewed this book",
				http.StatusConflict,
				"DUPLICATE_REVIEW",
			))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "book")
		case errors.Is(err, core.ErrInvalidInput):
			core.ValidationFailed(w, core.FieldErrors{
				"rating": {"must be between 0 and 5"},
			})
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, fields := parseListParams(r)
	if len(fields) > 0 {
		core.ValidationFailed(w, fields)
		return
	}

	resp, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) AverageRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.AverageRatings(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ratings)
}

func parseListParams(r *http.Request) (ListReviewsParams, core.FieldErrors) {
	q := r.URL.Query()
	fields := core.FieldErrors{}

	params := ListReviewsParams{
		Book:    q.Get("book"),
		User:    q.Get("user"),
		Comment: q.Get("comment"),
	}

	intParam := func(name string) *int {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			fields.Add(name, "must be an integer")
			return nil
		}
		return &n
	}

	params.MinRating = intParam("min_rating")
	params.MaxRating = intParam("max_rating")

	timeParam := func(name string) *time.Time {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if t, err = time.Parse("2006-01-02", v); err != nil {
				fields.Add(name, "must be an RFC 3339 timestamp or date")
				return nil
			}
		}
		return &t
	}

	params.CreatedAfter = timeParam("created_at_after")
	params.CreatedBefore = timeParam("created_at_before")

	if p := intParam("page"); p != nil {
		params.Page = *p
	}
	if p := intParam("page_size"); p != nil {
		params.PageSize = *p
	}

	if len(fields) == 0 {
		fields = nil
	}
	return params, fields
}
