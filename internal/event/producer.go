package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	pkgkafka "github.com/raxitsanghani/Nexura-Sports/pkg/kafka"
)

// Kafka topics for order domain events.
const (
	TopicOrderCreated        = "nexura.order.created"
	TopicOrderStatusChanged  = "nexura.order.status_changed"
	TopicCancellationRequest = "nexura.order.cancellation_requested"
)

const (
	aggregateTypeOrder = "order"
	sourceStorefront   = "storefront"
)

// OrderCreatedData is the payload for an order.created event: the full
// snapshot with the priced totals.
type OrderCreatedData struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Status       string             `json:"status"`
	Items        []domain.OrderItem `json:"items"`
	Shipping     string             `json:"shipping"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Discount     decimal.Decimal    `json:"discount"`
	Tax          decimal.Decimal    `json:"tax"`
	ShippingCost decimal.Decimal    `json:"shipping_cost"`
	GrandTotal   decimal.Decimal    `json:"grand_total"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// CancellationRequestedData is the payload for a cancellation request event.
type CancellationRequestedData struct {
	OrderID        string `json:"order_id"`
	UserID         string `json:"user_id"`
	PreviousStatus string `json:"previous_status"`
	Reason         string `json:"reason,omitempty"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:           order.ID,
		UserID:       order.UserID,
		Status:       order.Status,
		Items:        order.Items,
		Shipping:     string(order.Shipping),
		Subtotal:     order.Subtotal,
		Discount:     order.Discount,
		Tax:          order.Tax,
		ShippingCost: order.ShippingCost,
		GrandTotal:   order.GrandTotal,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, aggregateTypeOrder, sourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, orderID, aggregateTypeOrder, sourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("order_id", orderID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return nil
}

// PublishCancellationRequested publishes a cancellation request event.
func (p *Producer) PublishCancellationRequested(ctx context.Context, orderID, userID, previousStatus, reason string) error {
	data := CancellationRequestedData{
		OrderID:        orderID,
		UserID:         userID,
		PreviousStatus: previousStatus,
		Reason:         reason,
	}

	event, err := pkgkafka.NewEvent(TopicCancellationRequest, orderID, aggregateTypeOrder, sourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cancellation_requested event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCancellationRequest, event); err != nil {
		return fmt.Errorf("publish cancellation_requested event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cancellation_requested event",
		slog.String("order_id", orderID),
		slog.String("user_id", userID),
	)

	return nil
}
