package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/raxitsanghani/Nexura-Sports/internal/pricing"
)

// Order status constants. The display strings double as the persisted values.
const (
	OrderStatusProcessing      = "Processing"
	OrderStatusInTransit       = "In transit"
	OrderStatusConfirmed       = "Confirmed"
	OrderStatusCancelled       = "Cancelled"
	OrderStatusCancelRequested = "Cancellation Requested"
)

// Order represents a customer order. Items is the full line-item snapshot
// taken at checkout, including each product's discount label, so the money
// breakdown can be recomputed from the order alone.
type Order struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	Status         string           `json:"status"`
	PreviousStatus string           `json:"previous_status,omitempty"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	Items          []OrderItem      `json:"items"`
	Shipping       pricing.Shipping `json:"shipping"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Discount       decimal.Decimal  `json:"discount"`
	Tax            decimal.Decimal  `json:"tax"`
	ShippingCost   decimal.Decimal  `json:"shipping_cost"`
	GrandTotal     decimal.Decimal  `json:"grand_total"`
	Address        *Address         `json:"address,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// OrderItem is one product entry of an order, frozen at checkout time.
type OrderItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url,omitempty"`
	Color         string          `json:"color,omitempty"`
	Size          string          `json:"size,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountLabel string          `json:"discount_label,omitempty"`
}

// Address is the delivery address captured at checkout.
type Address struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone,omitempty"`
}

// PricingInput converts the frozen item snapshot back into pricing inputs
// for recomputation.
func (o *Order) PricingInput() []pricing.LineItem {
	items := make([]pricing.LineItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = pricing.LineItem{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			DiscountLabel: it.DiscountLabel,
		}
	}
	return items
}

// ValidStatuses returns every recognized order status.
func ValidStatuses() []string {
	return []string{
		OrderStatusProcessing,
		OrderStatusInTransit,
		OrderStatusConfirmed,
		OrderStatusCancelled,
		OrderStatusCancelRequested,
	}
}

// IsValidStatus reports whether status is recognized.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines the admin-driven status transitions. Customer
// cancellation requests and their resolution are handled separately because
// rejecting a request restores the order's previous status.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusProcessing:      {OrderStatusInTransit, OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusInTransit:       {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed:       {},
		OrderStatusCancelled:       {},
		OrderStatusCancelRequested: {OrderStatusCancelled},
	}
}

// CanTransitionTo checks whether the order may move to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsActive reports whether the order is still in flight from the customer's
// point of view. Only active orders may request cancellation.
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusProcessing || o.Status == OrderStatusInTransit
}

// RequestCancellation moves an active order into Cancellation Requested,
// remembering the prior status so a rejected request can restore it. The
// reason is free-form and may be empty.
func (o *Order) RequestCancellation(reason string) bool {
	if !o.IsActive() {
		return false
	}
	o.PreviousStatus = o.Status
	o.Status = OrderStatusCancelRequested
	o.CancelReason = reason
	return true
}

// ResolveCancellation settles a pending cancellation request. Accepting
// cancels the order; rejecting restores the status the order held when the
// request was made.
func (o *Order) ResolveCancellation(accept bool) bool {
	if o.Status != OrderStatusCancelRequested {
		return false
	}
	if accept {
		o.Status = OrderStatusCancelled
	} else {
		o.Status = o.PreviousStatus
		if o.Status == "" {
			o.Status = OrderStatusProcessing
		}
		o.CancelReason = ""
	}
	o.PreviousStatus = ""
	return true
}
