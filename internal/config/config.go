package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	HitPayAPIKey      string `env:"HITPAY_API_KEY,required" validate:"required"`
	HitPayWebhookSalt string `env:"HITPAY_WEBHOOK_SALT,required" validate:"required"`
	HitPayEnvironment string `env:"HITPAY_ENVIRONMENT" envDefault:"sandbox" validate:"omitempty,oneof=sandbox production"`

	// BaseURL is where HitPay sends webhooks; ConfirmationBaseURL is where
	// customers land after paying. They differ when the API and storefront
	// are served from separate hosts.
	BaseURL             string `env:"BASE_URL,required" validate:"required,url"`
	ConfirmationBaseURL string `env:"CONFIRMATION_BASE_URL" validate:"omitempty,url"`

	Currency string `env:"CURRENCY" envDefault:"sgd" validate:"omitempty,oneof=sgd"`

	AdminPassword  string `env:"ADMIN_PASSWORD,required" validate:"required,min=12"`
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET,required" validate:"required,min=32"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"orders@karvana.sg" validate:"omitempty,email"`

	CatalogSeedPath string `env:"CATALOG_SEED_PATH"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if err := checkBaseURL(c.BaseURL, "BASE_URL"); err != nil {
		return err
	}
	if strings.TrimSpace(c.ConfirmationBaseURL) != "" {
		if err := checkBaseURL(c.ConfirmationBaseURL, "CONFIRMATION_BASE_URL"); err != nil {
			return err
		}
	}

	return nil
}

// ConfirmationURL returns the base customers are redirected to after
// payment, falling back to BaseURL when no storefront host is configured.
func (c *Config) ConfirmationURL() string {
	if base := strings.TrimSpace(c.ConfirmationBaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

func checkBaseURL(raw, name string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Hostname() == "" {
		return fmt.Errorf("%s must be a valid absolute URL", name)
	}
	if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("%s must use https outside local development", name)
	}
	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
