package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/karvanashop/karvana/internal/checkout"
	"github.com/karvanashop/karvana/internal/db"
	"github.com/karvanashop/karvana/internal/logging"
	"github.com/karvanashop/karvana/internal/models"
	"github.com/karvanashop/karvana/internal/observability"
)

// ErrAmountMismatch means a verified webhook reported a charge that does
// not match the order total. The order is left untouched for investigation.
var ErrAmountMismatch = errors.New("charged amount does not match order total")

type reconcileOrderStore interface {
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
	ApplyPaymentOutcome(ctx context.Context, orderID uuid.UUID, newStatus models.OrderStatus, fields models.PaymentFields) error
}

// PaymentOutcome is the gateway-variant-neutral result of a verified
// webhook. Both protocol variants reduce to this before reconciliation.
type PaymentOutcome struct {
	Reference     string
	PaymentID     string
	Succeeded     bool
	Amount        float64
	Currency      string
	MethodType    string
	MethodBrand   string
	MethodLast4   string
	TransactionAt time.Time
}

// ReconcileResult reports what the webhook did to the order.
type ReconcileResult struct {
	Order     *models.Order
	NewStatus models.OrderStatus
	Duplicate bool
}

// PaymentService applies verified payment outcomes to orders.
type PaymentService struct {
	orders      reconcileOrderStore
	emailSender OrderEmailSender
	logger      *slog.Logger
}

func NewPaymentService(orders reconcileOrderStore, emailSender OrderEmailSender, logger *slog.Logger) *PaymentService {
	if emailSender == nil {
		emailSender = noopOrderEmailSender{}
	}
	return &PaymentService{
		orders:      orders,
		emailSender: emailSender,
		logger:      logger,
	}
}

// Reconcile resolves the outcome's reference to an order and applies the
// status transition exactly once. A replayed or concurrent webhook for an
// order that already left pending_payment is reported as a duplicate, not
// an error; the stored outcome is never overwritten.
func (s *PaymentService) Reconcile(ctx context.Context, outcome PaymentOutcome) (*ReconcileResult, error) {
	span := sentry.StartSpan(
		ctx,
		"service.payment.reconcile",
		sentry.WithOpName("service.payment"),
		sentry.WithDescription("Reconcile"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)

	order, err := s.orders.GetByReference(ctx, outcome.Reference)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			meter.Count("webhook.order_missing", 1)
			logger.Error("webhook references unknown order", "reference", outcome.Reference, "payment_id", outcome.PaymentID)
		}
		return nil, err
	}

	if order.Status != models.StatusPendingPayment {
		meter.Count("webhook.duplicate", 1)
		logger.Info("webhook replay ignored",
			"reference", outcome.Reference,
			"payment_id", outcome.PaymentID,
			"status", order.Status)
		return &ReconcileResult{Order: order, NewStatus: order.Status, Duplicate: true}, nil
	}

	if outcome.Succeeded && math.Abs(outcome.Amount-order.TotalAmount) > checkout.TotalEpsilon {
		meter.Count("webhook.amount_mismatch", 1)
		logger.Error("webhook amount mismatch",
			"reference", outcome.Reference,
			"charged", outcome.Amount,
			"expected", order.TotalAmount)
		return nil, fmt.Errorf("%w: charged %.2f, order total %.2f",
			ErrAmountMismatch, outcome.Amount, order.TotalAmount)
	}

	newStatus := models.StatusPaymentFailed
	paymentStatus := models.PaymentFailed
	if outcome.Succeeded {
		newStatus = models.StatusAwaitingShipment
		paymentStatus = models.PaymentSucceeded
	}

	transactionAt := outcome.TransactionAt
	if transactionAt.IsZero() {
		transactionAt = time.Now()
	}
	err = s.orders.ApplyPaymentOutcome(ctx, order.ID, newStatus, models.PaymentFields{
		PaymentID:         outcome.PaymentID,
		Status:            paymentStatus,
		AmountCharged:     outcome.Amount,
		Currency:          outcome.Currency,
		MethodType:        outcome.MethodType,
		MethodBrand:       outcome.MethodBrand,
		MethodLast4:       outcome.MethodLast4,
		TransactionAt:     transactionAt,
		WebhookReceivedAt: time.Now(),
	})
	if err != nil {
		// Another delivery of the same webhook won the race between our
		// status read and the guarded update.
		if errors.Is(err, db.ErrInvalidStatusTransition) {
			meter.Count("webhook.duplicate", 1)
			logger.Info("concurrent webhook lost transition race", "reference", outcome.Reference, "payment_id", outcome.PaymentID)
			return &ReconcileResult{Order: order, NewStatus: order.Status, Duplicate: true}, nil
		}
		return nil, fmt.Errorf("failed to apply payment outcome: %w", err)
	}

	meter.Count("webhook.reconciled", 1, sentry.WithAttributes(
		attribute.String("outcome", string(newStatus)),
	))
	logger.Info("payment reconciled",
		"reference", outcome.Reference,
		"payment_id", outcome.PaymentID,
		"status", newStatus)

	order.Status = newStatus
	if newStatus == models.StatusAwaitingShipment {
		if emailErr := s.emailSender.SendOrderConfirmation(ctx, order); emailErr != nil {
			logger.Warn("failed to send order confirmation email", "error", emailErr, "reference", order.Reference)
		}
	}

	return &ReconcileResult{Order: order, NewStatus: newStatus, Duplicate: false}, nil
}
