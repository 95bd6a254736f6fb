package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/karvanashop/karvana/internal/cache"
	"github.com/karvanashop/karvana/internal/db"
)

const productListTTL = time.Minute

// ListProducts serves the active catalog. The listing is read on every
// storefront page, so it is served from cache when possible.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if cached, err := h.cacheProvider.Get(ctx, cache.ProductListKey); err == nil {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(cached)); err != nil {
			logger.Error("failed to write cached products", "error", err)
		}
		return
	}

	products, err := h.productStore.ListActive(ctx)
	if err != nil {
		logger.Error("failed to list products", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to list products")
		return
	}

	payload, err := json.Marshal(products)
	if err != nil {
		logger.Error("failed to encode products", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if err := h.cacheProvider.Set(ctx, cache.ProductListKey, string(payload), productListTTL); err != nil {
		logger.Warn("failed to cache product list", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		logger.Error("failed to write products", "error", err)
	}
}

// GetProduct serves one product, active or not; the storefront filters,
// the admin panel does not.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			h.writeError(ctx, w, http.StatusNotFound, "product not found")
			return
		}
		h.loggerFromContext(ctx).Error("failed to load product", "error", err, "product_id", id)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to load product")
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, product)
}

func (h *Handlers) invalidateProductCache(r *http.Request) {
	if err := h.cacheProvider.Delete(r.Context(), cache.ProductListKey); err != nil {
		h.loggerFromContext(r.Context()).Warn("failed to invalidate product cache", "error", err)
	}
}
