package hitpay

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/karvanashop/karvana/internal/crypto"
)

const testSalt = "whsalt_test"

func signedV1Form(t *testing.T, fields map[string]string) url.Values {
	t.Helper()

	sig, err := crypto.SignFields(testSalt, fields)
	if err != nil {
		t.Fatalf("failed to sign fields: %v", err)
	}

	form := url.Values{}
	for key, value := range fields {
		form.Set(key, value)
	}
	form.Set("hmac", sig)
	return form
}

func TestReadV1Event_Valid(t *testing.T) {
	t.Parallel()

	form := signedV1Form(t, map[string]string{
		"payment_id": "pay_123",
		"amount":     "205.00",
		"currency":   "SGD",
		"status":     "succeeded",
		"reference":  "KV-20250101-000042",
	})

	req := httptest.NewRequest("POST", "/webhooks/hitpay", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	event, err := ReadV1Event(req, testSalt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.PaymentID != "pay_123" || event.Reference != "KV-20250101-000042" || event.Status != "succeeded" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestReadV1Event_FlippedFieldInvalidates(t *testing.T) {
	t.Parallel()

	form := signedV1Form(t, map[string]string{
		"payment_id": "pay_123",
		"amount":     "205.00",
		"currency":   "SGD",
		"status":     "succeeded",
		"reference":  "KV-20250101-000042",
	})
	// Flip one character in one signed field.
	form.Set("amount", "205.01")

	req := httptest.NewRequest("POST", "/webhooks/hitpay", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := ReadV1Event(req, testSalt); !errors.Is(err, crypto.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestReadV1Event_MissingHMAC(t *testing.T) {
	t.Parallel()

	form := url.Values{}
	form.Set("payment_id", "pay_123")
	form.Set("reference", "KV-20250101-000042")

	req := httptest.NewRequest("POST", "/webhooks/hitpay", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := ReadV1Event(req, testSalt); !errors.Is(err, crypto.ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestReadV2Event_RawBodyVerification(t *testing.T) {
	t.Parallel()

	// Keys deliberately not alphabetical: verification must use the raw
	// bytes, so the order the sender happened to serialize in is fine.
	payload := []byte(`{"status":"succeeded","id":"charge_9","amount":205,"currency":"SGD","reference_number":"KV-20250101-000042"}`)
	sig, err := crypto.Sign(testSalt, payload)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	req := httptest.NewRequest("POST", "/webhooks/hitpay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, sig)
	req.Header.Set(EventObjectHeader, "charge")

	event, err := ReadV2Event(req, testSalt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID != "charge_9" || event.Amount != 205 || event.EventObject != "charge" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestReadV2Event_WhitespaceChangesBreakSignature(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"charge_9","status":"succeeded"}`)
	sig, err := crypto.Sign(testSalt, payload)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	// Same JSON value, different bytes.
	altered := []byte(`{"id": "charge_9", "status": "succeeded"}`)
	req := httptest.NewRequest("POST", "/webhooks/hitpay", bytes.NewReader(altered))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, sig)

	if _, err := ReadV2Event(req, testSalt); !errors.Is(err, crypto.ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestReadV2Event_MissingSignatureHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/webhooks/hitpay", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	if _, err := ReadV2Event(req, testSalt); !errors.Is(err, crypto.ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestIsV2Request(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		signature   string
		userAgent   string
		want        bool
	}{
		{
			name:        "json with signature header",
			contentType: "application/json",
			signature:   "abc",
			want:        true,
		},
		{
			name:        "json with hitpay user agent",
			contentType: "application/json; charset=utf-8",
			userAgent:   "HitPay v2.0",
			want:        true,
		},
		{
			name:        "form encoded",
			contentType: "application/x-www-form-urlencoded",
			want:        false,
		},
		{
			name:        "json without fingerprint",
			contentType: "application/json",
			want:        false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("POST", "/webhooks/hitpay", nil)
			req.Header.Set("Content-Type", tc.contentType)
			if tc.signature != "" {
				req.Header.Set(SignatureHeader, tc.signature)
			}
			if tc.userAgent != "" {
				req.Header.Set("User-Agent", tc.userAgent)
			}

			if got := IsV2Request(req); got != tc.want {
				t.Fatalf("IsV2Request() = %v, want %v", got, tc.want)
			}
		})
	}
}
