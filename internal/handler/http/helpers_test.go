package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	"github.com/raxitsanghani/Nexura-Sports/internal/event"
	"github.com/raxitsanghani/Nexura-Sports/internal/pricing"
	"github.com/raxitsanghani/Nexura-Sports/internal/repository"
	"github.com/raxitsanghani/Nexura-Sports/internal/service"
	"github.com/raxitsanghani/Nexura-Sports/pkg/httputil"
	pkgkafka "github.com/raxitsanghani/Nexura-Sports/pkg/kafka"
	"github.com/raxitsanghani/Nexura-Sports/pkg/middleware"
)

// --- Mock repositories ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id, status, previousStatus, cancelReason string) error {
	args := m.Called(ctx, id, status, previousStatus, cancelReason)
	return args.Error(0)
}

func (m *mockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	args := m.Called(ctx, cart, expectedVersion)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	cfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	cfg.Async = true
	return event.NewProducer(pkgkafka.NewProducer(cfg, logger), logger)
}

func testOrderHandler(repo *mockOrderRepository, products *mockProductRepository, carts *mockCartRepository) *OrderHandler {
	engine := pricing.NewEngine(pricing.DefaultConfig())
	var cartRepo repository.CartRepository
	if carts != nil {
		cartRepo = carts
	}
	svc := service.NewOrderService(repo, products, cartRepo, engine, testEventProducer(), testLogger())
	return NewOrderHandler(svc, testLogger())
}

func testCartHandler(carts *mockCartRepository, products *mockProductRepository) *CartHandler {
	svc := service.NewCartService(carts, products, testLogger())
	return NewCartHandler(svc, testLogger())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProduct(id string, price int64, discount string) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          "Product " + id,
		Price:         decimal.NewFromInt(price),
		DiscountLabel: discount,
		InStock:       true,
	}
}

// setupOrderRouter creates a chi router matching the production route
// layout, with identity injected directly into the context.
func setupOrderRouter(handler *OrderHandler, userID, role string) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/checkout/quote", handler.Quote)
		r.Post("/orders", handler.Checkout)
		r.Get("/orders", handler.ListOrders)
		r.Get("/orders/{id}", handler.GetOrder)
		r.Post("/orders/{id}/cancellation", handler.RequestCancellation)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/orders", handler.AdminListOrders)
			r.Get("/orders/{id}/pricing", handler.AdminGetPricing)
			r.Put("/orders/{id}/status", handler.AdminUpdateStatus)
			r.Post("/orders/{id}/cancellation/{decision}", handler.AdminResolveCancellation)
			r.Delete("/orders/{id}", handler.AdminDeleteOrder)
		})
	})
	return withIdentity(r, userID, role)
}

func setupCartRouter(handler *CartHandler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Get("/cart", handler.GetCart)
		r.Delete("/cart", handler.ClearCart)
		r.Post("/cart/items", handler.AddItem)
		r.Put("/cart/items/{productID}", handler.SetQuantity)
		r.Delete("/cart/items/{productID}", handler.RemoveItem)
	})
	return withIdentity(r, userID, "customer")
}

// withIdentity wraps a handler so every request carries the given user,
// standing in for the Auth middleware.
func withIdentity(next http.Handler, userID, role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), userID, role)))
	})
}

// decodeResponse reads the response body into the standard envelope.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
