package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/karvanashop/karvana/internal/cache"
	"github.com/karvanashop/karvana/internal/crypto"
	"github.com/karvanashop/karvana/internal/db"
	"github.com/karvanashop/karvana/internal/hitpay"
	"github.com/karvanashop/karvana/internal/services"
)

// webhookIdempotencyTTL is how long processed payment ids are kept for
// deduplication. The database status guard remains the hard backstop.
const webhookIdempotencyTTL = 24 * time.Hour

const paymentSucceeded = "succeeded"

// HitPayWebhook receives both HitPay webhook variants, verifies their
// signatures and reconciles the referenced order. HitPay retries on
// non-2xx, so every already-handled delivery must answer 200.
func (h *Handlers) HitPayWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var outcome services.PaymentOutcome
	var err error
	if hitpay.IsV2Request(r) {
		outcome, err = h.readV2Outcome(r)
	} else {
		outcome, err = h.readV1Outcome(r)
	}
	if err != nil {
		if errors.Is(err, errIgnoredEvent) {
			w.WriteHeader(http.StatusOK)
			return
		}
		// A missing signature is a malformed delivery (400); a present but
		// wrong one is an authenticity failure (403).
		status := http.StatusBadRequest
		if errors.Is(err, crypto.ErrBadSignature) {
			status = http.StatusForbidden
		}
		logger.Error("rejected hitpay webhook", "error", err, "status", status)
		http.Error(w, "Invalid webhook", status)
		return
	}

	cacheKey := cache.WebhookKey("hitpay", outcome.PaymentID)
	if outcome.PaymentID != "" {
		if _, cacheErr := h.cacheProvider.Get(ctx, cacheKey); cacheErr == nil {
			logger.Info("webhook already processed", "payment_id", outcome.PaymentID)
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	result, err := h.paymentService.Reconcile(ctx, outcome)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, services.ErrAmountMismatch):
			http.Error(w, "Amount mismatch", http.StatusBadRequest)
		default:
			logger.Error("failed to process hitpay webhook", "error", err, "reference", outcome.Reference)
			http.Error(w, "Processing failed", http.StatusInternalServerError)
		}
		return
	}

	if outcome.PaymentID != "" {
		if err := h.cacheProvider.Set(ctx, cacheKey, "processed", webhookIdempotencyTTL); err != nil {
			logger.Error("failed to mark webhook as processed in cache", "error", err)
		}
	}

	if result.Duplicate {
		logger.Info("duplicate webhook acknowledged", "reference", outcome.Reference, "payment_id", outcome.PaymentID)
	}
	w.WriteHeader(http.StatusOK)
}

// errIgnoredEvent flags verified events the shop does not act on, such as
// non-charge V2 event objects. They are acknowledged, not rejected.
var errIgnoredEvent = errors.New("ignored event")

func (h *Handlers) readV1Outcome(r *http.Request) (services.PaymentOutcome, error) {
	event, err := hitpay.ReadV1Event(r, h.config.HitPayWebhookSalt)
	if err != nil {
		return services.PaymentOutcome{}, err
	}

	amount, err := event.AmountValue()
	if err != nil {
		return services.PaymentOutcome{}, err
	}

	return services.PaymentOutcome{
		Reference: event.Reference,
		PaymentID: event.PaymentID,
		Succeeded: event.Status == paymentSucceeded,
		Amount:    amount,
		Currency:  event.Currency,
	}, nil
}

func (h *Handlers) readV2Outcome(r *http.Request) (services.PaymentOutcome, error) {
	event, err := hitpay.ReadV2Event(r, h.config.HitPayWebhookSalt)
	if err != nil {
		return services.PaymentOutcome{}, err
	}
	if event.EventObject != hitpay.EventObjectCharge {
		h.loggerFromContext(r.Context()).Info("ignoring non-charge hitpay event", "event_object", event.EventObject)
		return services.PaymentOutcome{}, errIgnoredEvent
	}

	reference := event.ReferenceNumber
	if reference == "" {
		reference = event.OrderID
	}

	method := event.Method()
	return services.PaymentOutcome{
		Reference:     reference,
		PaymentID:     event.ID,
		Succeeded:     event.Status == paymentSucceeded,
		Amount:        event.Amount,
		Currency:      event.Currency,
		MethodType:    method.Type,
		MethodBrand:   method.Brand,
		MethodLast4:   method.LastFour,
		TransactionAt: event.CreatedAtTime(),
	}, nil
}
