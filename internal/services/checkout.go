package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/karvanashop/karvana/internal/checkout"
	"github.com/karvanashop/karvana/internal/hitpay"
	"github.com/karvanashop/karvana/internal/logging"
	"github.com/karvanashop/karvana/internal/models"
	"github.com/karvanashop/karvana/internal/observability"
)

var ErrPaymentGateway = errors.New("payment gateway unavailable")

type productFinder interface {
	GetByIDs(ctx context.Context, ids []int) ([]models.ProductRef, error)
}

type checkoutOrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	AttachPaymentRequest(ctx context.Context, orderID uuid.UUID, paymentRequestID string) error
}

type paymentGateway interface {
	CreatePaymentRequest(ctx context.Context, params hitpay.PaymentRequestParams) (*hitpay.PaymentRequest, error)
}

// CheckoutService turns a validated cart into a pending order with a hosted
// payment URL. Prices always come from the product table; the client's
// figures are only ever compared, never stored.
type CheckoutService struct {
	products        productFinder
	orders          checkoutOrderStore
	gateway         paymentGateway
	validator       *checkout.Validator
	pricer          *checkout.Pricer
	currency        string
	webhookURL      string
	confirmationURL string
	logger          *slog.Logger
}

type CheckoutConfig struct {
	Currency        string
	WebhookURL      string
	ConfirmationURL string
}

func NewCheckoutService(products productFinder, orders checkoutOrderStore, gateway paymentGateway, cfg CheckoutConfig, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		products:        products,
		orders:          orders,
		gateway:         gateway,
		validator:       checkout.NewValidator(),
		pricer:          checkout.NewPricer(),
		currency:        cfg.Currency,
		webhookURL:      cfg.WebhookURL,
		confirmationURL: cfg.ConfirmationURL,
		logger:          logger,
	}
}

// CheckoutResult is what the storefront needs to continue: where to send
// the customer, and which order to show when they come back.
type CheckoutResult struct {
	OrderID    uuid.UUID `json:"order_id"`
	Reference  string    `json:"reference"`
	PaymentURL string    `json:"payment_url"`
}

// Submit validates, reprices and persists a checkout, then creates the
// HitPay payment request for it. The order is created before the gateway
// call so a crash between the two leaves a traceable pending order rather
// than an untracked payment.
func (s *CheckoutService) Submit(ctx context.Context, sub *checkout.Submission) (*CheckoutResult, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.submit",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("Submit"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)
	recordFailure := func(reason string) {
		meter.Count("checkout.failed", 1, sentry.WithAttributes(
			attribute.String("reason", reason),
		))
	}
	meter.Count("checkout.received", 1)

	s.validator.Sanitize(sub)
	if err := s.validator.Validate(sub); err != nil {
		recordFailure("validation")
		return nil, err
	}

	ids := make([]int, 0, len(sub.Items))
	for _, item := range sub.Items {
		ids = append(ids, item.ProductID)
	}
	refs, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		recordFailure("product_lookup")
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	priced, err := s.pricer.Reprice(sub, refs)
	if err != nil {
		recordFailure("pricing")
		return nil, err
	}

	order := &models.Order{
		Reference:      hitpay.GenerateReference(time.Now()),
		CustomerName:   sub.CustomerDetails.FullName,
		CustomerEmail:  sub.CustomerDetails.Email,
		CustomerPhone:  sub.CustomerDetails.Phone,
		Address1:       sub.ShippingAddress.Address1,
		Address2:       sub.ShippingAddress.Address2,
		City:           sub.ShippingAddress.City,
		PostalCode:     sub.ShippingAddress.PostalCode,
		Country:        sub.ShippingAddress.Country,
		Items:          priced.Items,
		Subtotal:       priced.Subtotal,
		DiscountAmount: priced.DiscountAmount,
		ShippingCost:   priced.ShippingCost,
		TotalAmount:    priced.TotalAmount,
		CustomerNotes:  sub.CustomerNotes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		recordFailure("order_create")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info("order created",
		"order_id", order.ID,
		"reference", order.Reference,
		"total", order.TotalAmount,
		"items", len(order.Items))

	paymentRequest, err := s.gateway.CreatePaymentRequest(ctx, hitpay.PaymentRequestParams{
		Amount:          order.TotalAmount,
		Currency:        s.currency,
		Email:           order.CustomerEmail,
		Name:            order.CustomerName,
		Phone:           order.CustomerPhone,
		Purpose:         "Karvana Order " + order.Reference,
		ReferenceNumber: order.Reference,
		WebhookURL:      s.webhookURL,
		RedirectURL:     s.confirmationURL + "?orderId=" + order.ID.String(),
	})
	if err != nil {
		// The pending order is kept; admins can cancel it and the customer
		// can retry checkout.
		recordFailure("gateway")
		logger.Error("payment request failed", "error", err, "order_id", order.ID, "reference", order.Reference)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	if err := s.orders.AttachPaymentRequest(ctx, order.ID, paymentRequest.ID); err != nil {
		recordFailure("attach_payment_request")
		return nil, fmt.Errorf("failed to record payment request: %w", err)
	}

	meter.Count("checkout.completed", 1)
	logger.Info("payment request created",
		"order_id", order.ID,
		"reference", order.Reference,
		"payment_request_id", paymentRequest.ID)

	return &CheckoutResult{
		OrderID:    order.ID,
		Reference:  order.Reference,
		PaymentURL: paymentRequest.URL,
	}, nil
}
