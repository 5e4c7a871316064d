package http

import (
	"net/http"
	"strconv"

	"github.com/raxitsanghani/Nexura-Sports/internal/pricing"
	"github.com/raxitsanghani/Nexura-Sports/pkg/httputil"
)

// PricingLineResponse is the rendered breakdown for one line item. Amounts
// are rounded to two places here and nowhere earlier.
type PricingLineResponse struct {
	ProductID              string `json:"product_id"`
	Quantity               int    `json:"quantity"`
	UnitPrice              string `json:"unit_price"`
	DiscountPercent        string `json:"discount_percent"`
	LineTotalOriginal      string `json:"line_total_original"`
	DiscountAmount         string `json:"discount_amount"`
	LineTotalAfterDiscount string `json:"line_total_after_discount"`
	DiscountedUnitPrice    string `json:"discounted_unit_price"`
	TaxRate                string `json:"tax_rate"`
	TaxAmount              string `json:"tax_amount"`
}

// PricingResponse is the rendered money breakdown for a whole order.
type PricingResponse struct {
	Lines        []PricingLineResponse `json:"lines"`
	Subtotal     string                `json:"subtotal"`
	Discount     string                `json:"discount"`
	Tax          string                `json:"tax"`
	ShippingCost string                `json:"shipping_cost"`
	GrandTotal   string                `json:"grand_total"`
}

// NewPricingResponse renders an order breakdown for the API.
func NewPricingResponse(p *pricing.OrderPricing) PricingResponse {
	lines := make([]PricingLineResponse, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = PricingLineResponse{
			ProductID:              l.ProductID,
			Quantity:               l.Quantity,
			UnitPrice:              l.UnitPrice.StringFixed(2),
			DiscountPercent:        l.DiscountPercent.StringFixed(2),
			LineTotalOriginal:      l.LineTotalOriginal.StringFixed(2),
			DiscountAmount:         l.DiscountAmount.StringFixed(2),
			LineTotalAfterDiscount: l.LineTotalAfterDiscount.StringFixed(2),
			DiscountedUnitPrice:    l.DiscountedUnitPrice.StringFixed(2),
			TaxRate:                l.TaxRate.StringFixed(2),
			TaxAmount:              l.TaxAmount.StringFixed(2),
		}
	}
	return PricingResponse{
		Lines:        lines,
		Subtotal:     p.SubtotalOriginal.StringFixed(2),
		Discount:     p.TotalDiscount.StringFixed(2),
		Tax:          p.TotalTax.StringFixed(2),
		ShippingCost: p.ShippingCost.StringFixed(2),
		GrandTotal:   p.GrandTotal.StringFixed(2),
	}
}

// parsePagination reads page/per_page query parameters with defaults of
// 1/20. On an invalid value it writes a 400 and returns ok=false.
func parsePagination(w http.ResponseWriter, r *http.Request) (page, perPage int, ok bool) {
	page, perPage = 1, 20

	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return 0, 0, false
		}
		page = p
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 || p > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return 0, 0, false
		}
		perPage = p
	}

	return page, perPage, true
}

// writeBadBody writes the standard response for an undecodable JSON body.
func writeBadBody(w http.ResponseWriter, err error) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
	})
}
