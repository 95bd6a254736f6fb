package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/karvanashop/karvana/internal/db"
	"github.com/karvanashop/karvana/internal/models"
)

// AdminListOrders serves recent orders for the back office.
func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	orders, err := h.adminService.ListOrders(ctx, limit)
	if err != nil {
		h.loggerFromContext(ctx).Error("failed to list orders", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	h.writeJSON(ctx, w, http.StatusOK, orders)
}

// AdminGetOrder serves a single order with its payment transaction.
func (h *Handlers) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	h.adminOrderAction(w, r, h.adminService.GetOrder)
}

// AdminShipOrder transitions a paid order to shipped.
func (h *Handlers) AdminShipOrder(w http.ResponseWriter, r *http.Request) {
	h.adminOrderAction(w, r, h.adminService.ShipOrder)
}

// AdminDeliverOrder transitions a shipped order to delivered.
func (h *Handlers) AdminDeliverOrder(w http.ResponseWriter, r *http.Request) {
	h.adminOrderAction(w, r, h.adminService.DeliverOrder)
}

// AdminCancelOrder cancels any non-terminal order.
func (h *Handlers) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	h.adminOrderAction(w, r, h.adminService.CancelOrder)
}

func (h *Handlers) adminOrderAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)) {
	ctx := r.Context()

	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := action(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrOrderNotFound):
			h.writeError(ctx, w, http.StatusNotFound, "order not found")
		case errors.Is(err, db.ErrInvalidStatusTransition):
			h.writeError(ctx, w, http.StatusConflict, err.Error())
		default:
			h.loggerFromContext(ctx).Error("order action failed", "error", err, "order_id", orderID)
			h.writeError(ctx, w, http.StatusInternalServerError, "order action failed")
		}
		return
	}
	h.writeJSON(ctx, w, http.StatusOK, order)
}

// AdminListProducts serves the full catalog, inactive products included.
func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.adminService.ListProducts(ctx)
	if err != nil {
		h.loggerFromContext(ctx).Error("failed to list products", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to list products")
		return
	}
	h.writeJSON(ctx, w, http.StatusOK, products)
}

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.adminService.CreateProduct(ctx, &product); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	h.invalidateProductCache(r)
	h.writeJSON(ctx, w, http.StatusCreated, product)
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid product id")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = id

	if err := h.adminService.UpdateProduct(ctx, &product); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			h.writeError(ctx, w, http.StatusNotFound, "product not found")
			return
		}
		h.writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	h.invalidateProductCache(r)
	h.writeJSON(ctx, w, http.StatusOK, product)
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.adminService.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			h.writeError(ctx, w, http.StatusNotFound, "product not found")
			return
		}
		h.loggerFromContext(ctx).Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.invalidateProductCache(r)
	w.WriteHeader(http.StatusNoContent)
}
