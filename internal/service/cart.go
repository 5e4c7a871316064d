package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

// Cart limits guarding against runaway requests.
const (
	MaxQuantityPerItem = 100
	MaxItemsPerCart    = 50
)

// saveRetries is how many times a conflicted optimistic save is retried
// against a freshly loaded cart.
const saveRetries = 3

// AddCartItemInput holds the parameters for adding an item to the cart.
type AddCartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// SetQuantityInput holds the parameters for updating an item's quantity.
// Zero removes the item.
type SetQuantityInput struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartService implements cart operations on top of the versioned cart store.
type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService creates a cart service.
func NewCartService(repo repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// GetCart retrieves the user's cart; a user with no cart gets an empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem merges a product into the cart, snapshotting its catalog name,
// image, price and discount. Concurrent modifications retry on the fresh
// cart.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddCartItemInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.Quantity < 1 || input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("quantity must be between 1 and %d", MaxQuantityPerItem))
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", input.ProductID)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		if len(cart.Items) >= MaxItemsPerCart && !cart.Has(input.ProductID) {
			return apperrors.InvalidInput(
				fmt.Sprintf("cart cannot hold more than %d distinct items", MaxItemsPerCart))
		}
		cart.Add(domain.CartItem{
			ProductID:     product.ID,
			Name:          product.Name,
			ImageURL:      product.PrimaryImage(),
			Color:         input.Color,
			Size:          input.Size,
			Quantity:      input.Quantity,
			UnitPrice:     product.Price,
			DiscountLabel: product.DiscountLabel,
		})
		return nil
	})
}

// SetQuantity updates an item's quantity; zero or less removes it.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if qty > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.SetQuantity(productID, qty)
		return nil
	})
}

// RemoveItem deletes a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.Remove(productID)
		return nil
	})
}

// ClearCart removes every item.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}

// Total sums the cart's line prices. Presentation only; the authoritative
// breakdown happens at checkout.
func (s *CartService) Total(cart *domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// mutate loads the cart, applies fn, and saves optimistically, retrying on
// version conflicts. The save is best-effort: when it still fails after the
// retries, the mutated cart is returned anyway and the failure is only
// logged. Load and mutation errors remain fatal.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	var (
		cart    *domain.Cart
		saveErr error
	)

	for attempt := 0; attempt < saveRetries; attempt++ {
		loaded, err := s.repo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		cart = loaded

		if err := fn(cart); err != nil {
			return nil, err
		}

		saveErr = s.repo.SaveIfVersion(ctx, cart, cart.Version)
		if saveErr == nil {
			return cart, nil
		}
		if !errors.Is(saveErr, apperrors.ErrConflict) {
			break
		}

		s.logger.DebugContext(ctx, "cart version conflict, retrying",
			slog.String("user_id", userID),
			slog.Int("attempt", attempt+1),
		)
	}

	s.logger.WarnContext(ctx, "failed to persist cart, returning unsaved result",
		slog.String("user_id", userID),
		slog.String("error", saveErr.Error()),
	)

	return cart, nil
}
