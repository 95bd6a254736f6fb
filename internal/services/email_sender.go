package services

import (
	"context"

	"github.com/karvanashop/karvana/internal/email"
	"github.com/karvanashop/karvana/internal/models"
)

type OrderEmailSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendOrderShipped(ctx context.Context, order *models.Order) error
	SendOrderDelivered(ctx context.Context, order *models.Order) error
}

// ProviderOrderEmailSender renders the built-in templates and delivers them
// through the configured email provider.
type ProviderOrderEmailSender struct {
	provider        email.Provider
	confirmationURL string
}

func NewProviderOrderEmailSender(provider email.Provider, confirmationURL string) *ProviderOrderEmailSender {
	return &ProviderOrderEmailSender{
		provider:        provider,
		confirmationURL: confirmationURL,
	}
}

func (s *ProviderOrderEmailSender) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	info := email.BuildOrderInfo(order)
	if s.confirmationURL != "" {
		info.ConfirmationURL = s.confirmationURL + "?orderId=" + order.ID.String()
	}
	return email.SendOrderConfirmation(ctx, s.provider, info)
}

func (s *ProviderOrderEmailSender) SendOrderShipped(ctx context.Context, order *models.Order) error {
	return email.SendOrderShipped(ctx, s.provider, email.BuildOrderInfo(order))
}

func (s *ProviderOrderEmailSender) SendOrderDelivered(ctx context.Context, order *models.Order) error {
	return email.SendOrderDelivered(ctx, s.provider, email.BuildOrderInfo(order))
}

type noopOrderEmailSender struct{}

func (noopOrderEmailSender) SendOrderConfirmation(context.Context, *models.Order) error {
	return nil
}

func (noopOrderEmailSender) SendOrderShipped(context.Context, *models.Order) error {
	return nil
}

func (noopOrderEmailSender) SendOrderDelivered(context.Context, *models.Order) error {
	return nil
}
