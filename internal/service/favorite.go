package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

// FavoriteProduct pairs a favorite with its resolved product. Product is nil
// when the catalog lookup failed; the rest of the list is still returned.
type FavoriteProduct struct {
	Favorite domain.Favorite `json:"favorite"`
	Product  *domain.Product `json:"product,omitempty"`
}

// FavoriteService implements favorites with parallel catalog resolution.
type FavoriteService struct {
	repo     repository.FavoriteRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewFavoriteService creates a favorites service.
func NewFavoriteService(repo repository.FavoriteRepository, products repository.ProductRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// Add saves a product to the user's favorites after confirming it exists.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return fmt.Errorf("load product: %w", err)
	}

	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	return nil
}

// Remove deletes a product from the user's favorites.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	return nil
}

// List returns the user's favorites with their products resolved. Lookups
// fan out in parallel and all complete before the list is returned; one
// failed lookup leaves a nil Product but never aborts the others.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]FavoriteProduct, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	favorites, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	results := make([]FavoriteProduct, len(favorites))

	var wg sync.WaitGroup
	for i, fav := range favorites {
		results[i].Favorite = fav

		wg.Add(1)
		go func(i int, productID string) {
			defer wg.Done()
			product, err := s.products.GetByID(ctx, productID)
			if err != nil {
				s.logger.WarnContext(ctx, "favorite product lookup failed",
					slog.String("product_id", productID),
					slog.String("error", err.Error()),
				)
				return
			}
			results[i].Product = product
		}(i, fav.ProductID)
	}
	wg.Wait()

	return results, nil
}
