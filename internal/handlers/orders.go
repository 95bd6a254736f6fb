package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/karvanashop/karvana/internal/db"
	"github.com/karvanashop/karvana/internal/models"
)

// GetOrder serves a single order by UUID or by its KV- reference code. The
// reference form backs the post-payment confirmation page.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := mux.Vars(r)["id"]

	var order *models.Order
	var err error
	if strings.HasPrefix(key, "KV-") {
		order, err = h.orderStore.GetByReference(ctx, key)
	} else {
		orderID, parseErr := uuid.Parse(key)
		if parseErr != nil {
			h.writeError(ctx, w, http.StatusBadRequest, "invalid order id")
			return
		}
		order, err = h.orderStore.GetByID(ctx, orderID)
	}
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			h.writeError(ctx, w, http.StatusNotFound, "order not found")
			return
		}
		h.loggerFromContext(ctx).Error("failed to load order", "error", err, "key", key)
		h.writeError(ctx, w, http.StatusInternalServerError, "failed to load order")
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, order)
}
