package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

// CreateReviewInput holds the parameters for submitting a review.
type CreateReviewInput struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Body   string `json:"body" validate:"required,max=2000"`
}

// ReviewService implements product review submission and listing.
type ReviewService struct {
	repo     repository.ReviewRepository
	products repository.ProductRepository
}

// NewReviewService creates a review service.
func NewReviewService(repo repository.ReviewRepository, products repository.ProductRepository) *ReviewService {
	return &ReviewService{
		repo:     repo,
		products: products,
	}
}

// CreateReview submits a review for an existing product.
func (s *ReviewService) CreateReview(ctx context.Context, productID, userID string, input CreateReviewInput) (*domain.Review, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

// ListReviews returns a product's reviews with the aggregate summary.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, *domain.ReviewSummary, error) {
	reviews, total, err := s.repo.ListByProduct(ctx, productID, page, perPage)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.repo.Summary(ctx, productID)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("review summary: %w", err)
	}

	return reviews, total, summary, nil
}
