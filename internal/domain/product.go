package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	DiscountLabel string          `json:"discount_label,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Colors        []string        `json:"colors,omitempty"`
	Sizes         []string        `json:"sizes,omitempty"`
	InStock       bool            `json:"in_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PrimaryImage returns the first usable image URL, skipping empty entries.
// Returns "" when the product has no images at all.
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img != "" {
			return img
		}
	}
	return ""
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	Search   string
	Page     int
	PerPage  int
}
