package repository

import (
	"context"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	// Create inserts a new order with its line-item snapshot.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter plus the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the status, previous-status and cancellation
	// reason atomically.
	UpdateStatus(ctx context.Context, id, status, previousStatus, cancelReason string) error

	// Delete removes an order permanently.
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines catalog read operations.
type ProductRepository interface {
	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter plus the total count.
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, review *domain.Review) error

	// ListByProduct returns reviews for a product, newest first, plus the
	// total count.
	ListByProduct(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error)

	// Summary returns aggregate rating statistics for a product.
	Summary(ctx context.Context, productID string) (*domain.ReviewSummary, error)
}

// FavoriteRepository defines favorites persistence operations.
type FavoriteRepository interface {
	// Add saves a product to the user's favorites (idempotent).
	Add(ctx context.Context, userID, productID string) error

	// Remove deletes a product from the user's favorites.
	Remove(ctx context.Context, userID, productID string) error

	// List returns all favorites for the user, newest first.
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
}

// CartRepository defines cart persistence operations.
type CartRepository interface {
	// Get retrieves the user's cart. A missing cart returns an empty one,
	// not an error.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save unconditionally persists the cart.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists the cart only when the stored version still
	// matches expectedVersion, returning ErrConflict otherwise.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error

	// Delete removes the user's cart.
	Delete(ctx context.Context, userID string) error
}
