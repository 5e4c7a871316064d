package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	"github.com/raxitsanghani/Nexura-Sports/internal/service"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
	"github.com/raxitsanghani/Nexura-Sports/pkg/httputil"
	"github.com/raxitsanghani/Nexura-Sports/pkg/middleware"
	"github.com/raxitsanghani/Nexura-Sports/pkg/validator"
)

// OrderHandler handles checkout, quoting and order management endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CheckoutItemRequest is one line of a checkout request. Prices come from
// the catalog, so the client only names the product.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CheckoutRequest is the JSON request body for placing an order.
type CheckoutRequest struct {
	Items    []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	Shipping string                `json:"shipping" validate:"required,oneof=standard express"`
	Address  *domain.Address       `json:"address"`
}

// QuoteItemRequest is one raw line of a quote request.
type QuoteItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  string          `json:"discount"`
}

// QuoteRequest is the JSON request body for pricing a hypothetical basket.
type QuoteRequest struct {
	Items    []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	Shipping string             `json:"shipping" validate:"required,oneof=standard express"`
}

// UpdateStatusRequest is the JSON request body for an admin status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CancelRequest is the optional JSON request body for a cancellation request.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// --- Customer handlers ---

// Quote handles POST /api/v1/checkout/quote
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items := make([]service.QuoteItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.QuoteItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		}
	}

	breakdown, err := h.service.Quote(r.Context(), service.QuoteInput{
		Items:    items,
		Shipping: req.Shipping,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: NewPricingResponse(breakdown)})
}

// Checkout handles POST /api/v1/orders
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items := make([]service.CheckoutItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.CheckoutItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Color:     it.Color,
			Size:      it.Size,
		}
	}

	order, err := h.service.Checkout(r.Context(), middleware.UserIDFromContext(r.Context()), service.CheckoutInput{
		Items:    items,
		Shipping: req.Shipping,
		Address:  req.Address,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders (the caller's own orders).
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	filter := repository.OrderFilter{
		UserID:  &userID,
		Page:    page,
		PerPage: perPage,
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	orders, total, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(orders, total, page, perPage))
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// RequestCancellation handles POST /api/v1/orders/{id}/cancellation
func (h *OrderHandler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// The body is optional; an absent or empty body means no reason given.
	var req CancelRequest
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeBadBody(w, err)
			return
		}
	}

	order, err := h.service.RequestCancellation(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()), req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// --- Admin handlers ---

// AdminListOrders handles GET /api/v1/admin/orders
func (h *OrderHandler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePagination(w, r)
	if !ok {
		return
	}

	filter := repository.OrderFilter{Page: page, PerPage: perPage}
	if v := r.URL.Query().Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	orders, total, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(orders, total, page, perPage))
}

// AdminGetPricing handles GET /api/v1/admin/orders/{id}/pricing
// It recomputes the money breakdown from the stored snapshot.
func (h *OrderHandler) AdminGetPricing(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	breakdown, err := h.service.Reprice(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: NewPricingResponse(breakdown)})
}

// AdminUpdateStatus handles PUT /api/v1/admin/orders/{id}/status
func (h *OrderHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// AdminResolveCancellation handles POST /api/v1/admin/orders/{id}/cancellation/{decision}
// where decision is "accept" or "reject".
func (h *OrderHandler) AdminResolveCancellation(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var accept bool
	switch decision := chi.URLParam(r, "decision"); decision {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		httputil.WriteError(w, r, apperrors.InvalidInput("decision must be accept or reject"), h.logger)
		return
	}

	order, err := h.service.ResolveCancellation(r.Context(), id.String(), accept)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// AdminDeleteOrder handles DELETE /api/v1/admin/orders/{id}
func (h *OrderHandler) AdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
