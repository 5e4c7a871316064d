package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/event"
	"github.com/raxitsanghani/Nexura-Sports/internal/pricing"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

// OrderService implements checkout and order management. Both the checkout
// path and the admin repricing path go through the same pricing engine; there
// is deliberately no second computation anywhere.
type OrderService struct {
	repo     repository.OrderRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	engine   *pricing.Engine
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates an order service.
func NewOrderService(
	repo repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
	engine *pricing.Engine,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		carts:    carts,
		engine:   engine,
		producer: producer,
		logger:   logger,
	}
}

// CheckoutItemInput selects one product for checkout. Price and discount are
// resolved from the catalog, never trusted from the client.
type CheckoutItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CheckoutInput holds the parameters for placing an order.
type CheckoutInput struct {
	Items    []CheckoutItemInput `json:"items" validate:"required,min=1,dive"`
	Shipping string              `json:"shipping" validate:"required,oneof=standard express"`
	Address  *domain.Address     `json:"address"`
}

// QuoteItemInput is one raw line for a pricing quote. Unlike checkout, the
// caller supplies the price directly, so a quote can price hypothetical
// baskets.
type QuoteItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  string          `json:"discount"`
}

// QuoteInput holds the parameters for a pricing quote.
type QuoteInput struct {
	Items    []QuoteItemInput `json:"items" validate:"required,min=1,dive"`
	Shipping string           `json:"shipping" validate:"required,oneof=standard express"`
}

// Quote prices a line-item list without persisting anything.
func (s *OrderService) Quote(ctx context.Context, input QuoteInput) (*pricing.OrderPricing, error) {
	items := make([]pricing.LineItem, len(input.Items))
	for i, it := range input.Items {
		items[i] = pricing.LineItem{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			DiscountLabel: it.Discount,
		}
	}

	result, err := s.engine.PriceOrder(items, pricing.Shipping(input.Shipping))
	if err != nil {
		return nil, mapPricingError(err)
	}
	return result, nil
}

// Checkout assembles the line-item snapshot from the catalog, prices it, and
// persists the order. The user's cart is cleared best-effort afterwards.
func (s *OrderService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}

	now := time.Now().UTC()

	snapshot := make([]domain.OrderItem, len(input.Items))
	lineItems := make([]pricing.LineItem, len(input.Items))
	for i, it := range input.Items {
		product, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("product", it.ProductID)
			}
			return nil, fmt.Errorf("load product %s: %w", it.ProductID, err)
		}

		snapshot[i] = domain.OrderItem{
			ProductID:     product.ID,
			Name:          product.Name,
			ImageURL:      product.PrimaryImage(),
			Color:         it.Color,
			Size:          it.Size,
			Quantity:      it.Quantity,
			UnitPrice:     product.Price,
			DiscountLabel: product.DiscountLabel,
		}
		lineItems[i] = pricing.LineItem{
			ProductID:     product.ID,
			Quantity:      it.Quantity,
			UnitPrice:     product.Price,
			DiscountLabel: product.DiscountLabel,
		}
	}

	breakdown, err := s.engine.PriceOrder(lineItems, pricing.Shipping(input.Shipping))
	if err != nil {
		return nil, mapPricingError(err)
	}

	order := &domain.Order{
		ID:           uuid.New().String(),
		UserID:       userID,
		Status:       domain.OrderStatusProcessing,
		Items:        snapshot,
		Shipping:     pricing.Shipping(input.Shipping),
		Subtotal:     breakdown.SubtotalOriginal,
		Discount:     breakdown.TotalDiscount,
		Tax:          breakdown.TotalTax,
		ShippingCost: breakdown.ShippingCost,
		GrandTotal:   breakdown.GrandTotal,
		Address:      input.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if s.carts != nil {
		if err := s.carts.Delete(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "failed to clear cart after checkout",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return order, nil
}

// GetOrder retrieves an order. A non-empty userID restricts access to the
// order's owner; admins pass "".
func (s *OrderService) GetOrder(ctx context.Context, id, userID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if userID != "" && order.UserID != userID {
		// Hide other users' orders entirely.
		return nil, apperrors.NotFound("order", id)
	}

	return order, nil
}

// ListOrders returns orders matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status %q", *filter.Status))
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// Reprice recomputes the money breakdown from the stored snapshot. The
// result is derived fresh from the same engine used at checkout, so it also
// serves as an audit that the persisted totals are reproducible.
func (s *OrderService) Reprice(ctx context.Context, id string) (*pricing.OrderPricing, error) {
	order, err := s.GetOrder(ctx, id, "")
	if err != nil {
		return nil, err
	}

	breakdown, err := s.engine.PriceOrder(order.PricingInput(), order.Shipping)
	if err != nil {
		return nil, mapPricingError(err)
	}

	return breakdown, nil
}

// UpdateStatus applies an admin status transition.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown status %q", status))
	}

	order, err := s.GetOrder(ctx, id, "")
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(status) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("cannot change status from %q to %q", order.Status, status))
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, id, status, "", ""); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status
	order.PreviousStatus = ""

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

// RequestCancellation moves a customer's active order into Cancellation
// Requested, remembering the prior status.
func (s *OrderService) RequestCancellation(ctx context.Context, id, userID, reason string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !order.RequestCancellation(reason) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, order.Status, order.PreviousStatus, order.CancelReason); err != nil {
		return nil, fmt.Errorf("request cancellation: %w", err)
	}

	if err := s.producer.PublishCancellationRequested(ctx, id, order.UserID, order.PreviousStatus, order.CancelReason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cancellation_requested event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

// ResolveCancellation settles a pending cancellation request. Accepting
// cancels the order; rejecting restores the status it held when the request
// was made.
func (s *OrderService) ResolveCancellation(ctx context.Context, id string, accept bool) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id, "")
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if !order.ResolveCancellation(accept) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("order in status %q has no pending cancellation request", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, order.Status, "", order.CancelReason); err != nil {
		return nil, fmt.Errorf("resolve cancellation: %w", err)
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, order.Status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

// DeleteOrder removes an order permanently (admin only).
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("order", id)
		}
		return fmt.Errorf("delete order: %w", err)
	}

	return nil
}

// mapPricingError translates pricing sentinels into client-facing input
// errors.
func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrEmptyOrder):
		return apperrors.InvalidInput("order must contain at least one item")
	case errors.Is(err, pricing.ErrInvalidLineItem):
		return apperrors.InvalidInput(err.Error())
	default:
		return fmt.Errorf("price order: %w", err)
	}
}
