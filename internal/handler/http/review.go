package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/service"
	"github.com/raxitsanghani/Nexura-Sports/pkg/httputil"
	"github.com/raxitsanghani/Nexura-Sports/pkg/middleware"
	"github.com/raxitsanghani/Nexura-Sports/pkg/validator"
)

// ReviewHandler handles product review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON request body for submitting a review.
type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body   string `json:"body" validate:"required,max=2000"`
}

// ReviewListResponse pairs a page of reviews with the product's aggregate
// rating.
type ReviewListResponse struct {
	Reviews httputil.PaginatedResponse[domain.Review] `json:"reviews"`
	Summary *domain.ReviewSummary                     `json:"summary"`
}

// ListReviews handles GET /api/v1/products/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}

	reviews, total, summary, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "id"), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ReviewListResponse{
		Reviews: httputil.NewPaginatedResponse(reviews, total, page, perPage),
		Summary: summary,
	}})
}

// CreateReview handles POST /api/v1/products/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.CreateReview(r.Context(),
		chi.URLParam(r, "id"), middleware.UserIDFromContext(r.Context()),
		service.CreateReviewInput{Rating: req.Rating, Body: req.Body})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}
