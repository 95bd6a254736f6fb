package config

import (
	"log/slog"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:       "postgres://localhost:5432/karvana",
		HitPayAPIKey:      "test-api-key",
		HitPayWebhookSalt: "test-webhook-salt",
		HitPayEnvironment: "sandbox",
		BaseURL:           "https://shop.example.com",
		Currency:          "sgd",
		AdminPassword:     strings.Repeat("p", 16),
		AdminJWTSecret:    strings.Repeat("s", 32),
		CacheProvider:     "memory",
		LogLevel:          slog.LevelInfo,
		LogFormat:         "text",
		Port:              "8080",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	t.Parallel()

	if err := validConfig().validate(); err != nil {
		t.Fatalf("validate() = %v, want nil", err)
	}
}

func TestValidateHitPayEnvironment(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.HitPayEnvironment = "staging"

	err := cfg.validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "HitPayEnvironment") || !strings.Contains(err.Error(), "oneof") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCurrencyRestrictedToSGD(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Currency = "usd"

	if err := cfg.validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidateAdminJWTSecretLength(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.AdminJWTSecret = "too-short"

	err := cfg.validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "AdminJWTSecret") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRedisRequiredForRedisProvider(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CacheProvider = "redis"
	cfg.RedisConnectionString = ""

	err := cfg.validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "RedisConnectionString") || !strings.Contains(err.Error(), "required_if") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBaseURLScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"https in production", "https://shop.example.com", false},
		{"http on localhost", "http://localhost:8080", false},
		{"http on public host", "http://shop.example.com", true},
		{"missing host", "https://", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.BaseURL = tt.baseURL

			err := cfg.validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfirmationURLFallsBackToBaseURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ConfirmationBaseURL = ""
	if got := cfg.ConfirmationURL(); got != "https://shop.example.com" {
		t.Errorf("ConfirmationURL() = %q", got)
	}

	cfg.ConfirmationBaseURL = "https://www.karvana.sg/"
	if got := cfg.ConfirmationURL(); got != "https://www.karvana.sg" {
		t.Errorf("ConfirmationURL() = %q", got)
	}
}
