// Package email provides transactional email delivery for order updates.
package email

import (
	"context"
)

type Provider interface {
	SendEmail(ctx context.Context, email *Email) error
	ValidateAPIKey(ctx context.Context) error
}

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Config struct {
	APIKey string
	From   string
}

// NewProvider returns a Resend-backed provider, or a no-op one when no API
// key is configured. Email is best-effort; the shop runs without it.
func NewProvider(config Config) Provider {
	if config.APIKey == "" {
		return NoopProvider{}
	}
	return NewResendProvider(config.APIKey, config.From)
}

// NoopProvider silently drops every email.
type NoopProvider struct{}

func (NoopProvider) SendEmail(ctx context.Context, email *Email) error {
	return nil
}

func (NoopProvider) ValidateAPIKey(ctx context.Context) error {
	return nil
}
