package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raxitsanghani/Nexura-Sports/internal/service"
	"github.com/raxitsanghani/Nexura-Sports/pkg/httputil"
	"github.com/raxitsanghani/Nexura-Sports/pkg/middleware"
)

// FavoriteHandler handles the authenticated user's saved products.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorites HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: svc,
		logger:  logger,
	}
}

// ListFavorites handles GET /api/v1/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if list == nil {
		list = []service.FavoriteProduct{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// AddFavorite handles PUT /api/v1/favorites/{productID}
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Add(r.Context(),
		middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{productID}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.service.Remove(r.Context(),
		middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
