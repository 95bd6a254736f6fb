package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/karvanashop/karvana/internal/checkout"
	"github.com/karvanashop/karvana/internal/services"
)

// Checkout accepts a cart submission, reprices it server-side and responds
// with the hosted payment URL for the created pending order.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var sub checkout.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkoutService.Submit(ctx, &sub)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			h.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
		case errors.Is(err, checkout.ErrUnknownProduct),
			errors.Is(err, checkout.ErrInactiveProduct),
			errors.Is(err, checkout.ErrTotalMismatch):
			h.writeError(ctx, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPaymentGateway):
			h.writeError(ctx, w, http.StatusBadGateway, "payment gateway unavailable")
		default:
			logger.Error("checkout failed", "error", err)
			h.writeError(ctx, w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	h.writeJSON(ctx, w, http.StatusCreated, result)
}
