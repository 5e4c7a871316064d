package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart represents a shopping cart. Version supports optimistic concurrency
// in the cart store.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product entry in the cart. Color and size are optional
// variant selections.
type CartItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url,omitempty"`
	Color         string          `json:"color,omitempty"`
	Size          string          `json:"size,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountLabel string          `json:"discount_label,omitempty"`
}

// Has reports whether the cart already holds an entry for productID.
func (c *Cart) Has(productID string) bool {
	return c.findIndex(productID) >= 0
}

// findIndex returns the position of the item for productID, or -1.
func (c *Cart) findIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges the item into the cart. An existing entry for the same product
// gains the quantity; its color and size are overwritten only when the new
// item carries them. A quantity below one makes the add a no-op.
func (c *Cart) Add(item CartItem) {
	if item.Quantity < 1 {
		return
	}

	i := c.findIndex(item.ProductID)
	if i < 0 {
		c.Items = append(c.Items, item)
		return
	}

	c.Items[i].Quantity += item.Quantity
	if item.Color != "" {
		c.Items[i].Color = item.Color
	}
	if item.Size != "" {
		c.Items[i].Size = item.Size
	}
}

// SetQuantity replaces the quantity for a product. A quantity of zero or
// less removes the entry; a stored zero never exists.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.findIndex(productID); i >= 0 {
		c.Items[i].Quantity = qty
	}
}

// Remove deletes the entry for productID, if present.
func (c *Cart) Remove(productID string) {
	if i := c.findIndex(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// ItemCount returns the total number of units across all entries.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
