package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raxitsanghani/Nexura-Sports/internal/service"
	"github.com/raxitsanghani/Nexura-Sports/pkg/health"
	"github.com/raxitsanghani/Nexura-Sports/pkg/middleware"
)

// Services groups the service dependencies of the router.
type Services struct {
	Products  *service.ProductService
	Reviews   *service.ReviewService
	Carts     *service.CartService
	Orders    *service.OrderService
	Favorites *service.FavoriteService
}

// NewRouter creates a chi router with all storefront routes registered.
// Catalog reads are public; everything else requires a verified token, and
// the admin subtree additionally requires the admin role.
func NewRouter(
	svcs Services,
	healthHandler *health.Handler,
	validateToken middleware.TokenValidator,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(svcs.Products, logger)
	reviewHandler := NewReviewHandler(svcs.Reviews, logger)
	cartHandler := NewCartHandler(svcs.Carts, logger)
	orderHandler := NewOrderHandler(svcs.Orders, logger)
	favoriteHandler := NewFavoriteHandler(svcs.Favorites, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public catalog
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{id}", productHandler.GetProduct)
		r.Get("/products/{id}/reviews", reviewHandler.ListReviews)

		// Customer endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validateToken))

			r.Post("/products/{id}/reviews", reviewHandler.CreateReview)

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productID}", cartHandler.SetQuantity)
			r.Delete("/cart/items/{productID}", cartHandler.RemoveItem)

			r.Post("/checkout/quote", orderHandler.Quote)

			r.Post("/orders", orderHandler.Checkout)
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{id}", orderHandler.GetOrder)
			r.Post("/orders/{id}/cancellation", orderHandler.RequestCancellation)

			r.Get("/favorites", favoriteHandler.ListFavorites)
			r.Put("/favorites/{productID}", favoriteHandler.AddFavorite)
			r.Delete("/favorites/{productID}", favoriteHandler.RemoveFavorite)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(validateToken))
			r.Use(middleware.RequireRole("admin"))

			r.Get("/orders", orderHandler.AdminListOrders)
			r.Get("/orders/{id}/pricing", orderHandler.AdminGetPricing)
			r.Put("/orders/{id}/status", orderHandler.AdminUpdateStatus)
			r.Post("/orders/{id}/cancellation/{decision}", orderHandler.AdminResolveCancellation)
			r.Delete("/orders/{id}", orderHandler.AdminDeleteOrder)
		})
	})

	return r
}
