// Package pricing derives the full money breakdown for an order: per-line
// discount, slab tax, shipping and grand total. It is pure — no I/O, no
// hidden state — so the same line-item snapshot always reprices to the same
// result, whether at checkout or later in an admin audit.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLineItem is returned for a non-positive quantity or a
	// negative unit price.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrEmptyOrder is returned when an order has no line items.
	ErrEmptyOrder = errors.New("order has no line items")
)

// Shipping selects the delivery option for an order.
type Shipping string

const (
	ShippingStandard Shipping = "standard"
	ShippingExpress  Shipping = "express"
)

// LineItem is the pricing input for one product entry of an order.
// DiscountLabel is free-form; see ParseDiscountPercent.
type LineItem struct {
	ProductID     string
	Quantity      int
	UnitPrice     decimal.Decimal
	DiscountLabel string
}

// TaxSlab maps prices above Threshold (exclusive) to Rate, expressed as a
// fraction (0.18 for 18%).
type TaxSlab struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// Config holds the tax schedule and shipping surcharge. Slabs are evaluated
// high-to-low against the discounted unit price; the first slab whose
// threshold is exceeded wins.
type Config struct {
	Slabs            []TaxSlab
	ExpressSurcharge decimal.Decimal
}

// DefaultConfig returns the GST two-slab schedule: 18% above 2500 per unit,
// 5% otherwise, with a flat 250 express surcharge.
func DefaultConfig() Config {
	return Config{
		Slabs: []TaxSlab{
			{Threshold: decimal.NewFromInt(2500), Rate: decimal.NewFromFloat(0.18)},
			{Threshold: decimal.Zero, Rate: decimal.NewFromFloat(0.05)},
		},
		ExpressSurcharge: decimal.NewFromInt(250),
	}
}

// LinePricing is the derived breakdown for a single line item.
type LinePricing struct {
	ProductID              string
	Quantity               int
	UnitPrice              decimal.Decimal
	DiscountPercent        decimal.Decimal
	LineTotalOriginal      decimal.Decimal
	DiscountAmount         decimal.Decimal
	LineTotalAfterDiscount decimal.Decimal
	DiscountedUnitPrice    decimal.Decimal
	TaxRate                decimal.Decimal
	TaxAmount              decimal.Decimal
}

// OrderPricing is the derived breakdown for a whole order. All amounts are
// unrounded; presentation layers round to two places.
type OrderPricing struct {
	Lines            []LinePricing
	SubtotalOriginal decimal.Decimal
	TotalDiscount    decimal.Decimal
	TotalTax         decimal.Decimal
	ShippingCost     decimal.Decimal
	GrandTotal       decimal.Decimal
}

// Engine prices line items against a fixed Config. The zero-cost methods are
// safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine for the given config. Slabs are sorted
// high-to-low so callers may supply them in any order.
func NewEngine(cfg Config) *Engine {
	slabs := make([]TaxSlab, len(cfg.Slabs))
	copy(slabs, cfg.Slabs)
	sort.Slice(slabs, func(i, j int) bool {
		return slabs[i].Threshold.GreaterThan(slabs[j].Threshold)
	})
	cfg.Slabs = slabs
	return &Engine{cfg: cfg}
}

// taxRateFor picks the rate for a discounted unit price. Thresholds are
// exclusive: a price exactly at a threshold falls through to the next slab.
func (e *Engine) taxRateFor(discountedUnitPrice decimal.Decimal) decimal.Decimal {
	for _, slab := range e.cfg.Slabs {
		if discountedUnitPrice.GreaterThan(slab.Threshold) {
			return slab.Rate
		}
	}
	return decimal.Zero
}

// PriceLine derives the per-line breakdown for one item.
func (e *Engine) PriceLine(item LineItem) (LinePricing, error) {
	if item.Quantity < 1 {
		return LinePricing{}, fmt.Errorf("%w: product %s: quantity %d", ErrInvalidLineItem, item.ProductID, item.Quantity)
	}
	if item.UnitPrice.Sign() < 0 {
		return LinePricing{}, fmt.Errorf("%w: product %s: negative unit price %s", ErrInvalidLineItem, item.ProductID, item.UnitPrice)
	}

	qty := decimal.NewFromInt(int64(item.Quantity))
	lineTotal := item.UnitPrice.Mul(qty)

	pct := ParseDiscountPercent(item.DiscountLabel)
	discount := decimal.Zero
	if pct.Sign() > 0 {
		discount = lineTotal.Mul(pct).Div(hundred)
	}

	afterDiscount := lineTotal.Sub(discount)
	discountedUnit := item.UnitPrice.Sub(discount.Div(qty))
	rate := e.taxRateFor(discountedUnit)
	tax := afterDiscount.Mul(rate)

	return LinePricing{
		ProductID:              item.ProductID,
		Quantity:               item.Quantity,
		UnitPrice:              item.UnitPrice,
		DiscountPercent:        pct,
		LineTotalOriginal:      lineTotal,
		DiscountAmount:         discount,
		LineTotalAfterDiscount: afterDiscount,
		DiscountedUnitPrice:    discountedUnit,
		TaxRate:                rate,
		TaxAmount:              tax,
	}, nil
}

// PriceOrder derives the full order breakdown. A failing line aborts the
// whole computation; no partial result is ever returned.
func (e *Engine) PriceOrder(items []LineItem, shipping Shipping) (*OrderPricing, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]LinePricing, 0, len(items))
	for _, item := range items {
		line, err := e.PriceLine(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	totalTax := decimal.Zero
	afterDiscount := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotalOriginal)
		totalDiscount = totalDiscount.Add(line.DiscountAmount)
		totalTax = totalTax.Add(line.TaxAmount)
		afterDiscount = afterDiscount.Add(line.LineTotalAfterDiscount)
	}

	shippingCost := decimal.Zero
	if shipping == ShippingExpress {
		shippingCost = e.cfg.ExpressSurcharge
	}

	return &OrderPricing{
		Lines:            lines,
		SubtotalOriginal: subtotal,
		TotalDiscount:    totalDiscount,
		TotalTax:         totalTax,
		ShippingCost:     shippingCost,
		GrandTotal:       afterDiscount.Add(totalTax).Add(shippingCost),
	}, nil
}
