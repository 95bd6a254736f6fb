package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/karvanashop/karvana/internal/checkout"
	"github.com/karvanashop/karvana/internal/services"
)

func TestCheckoutReturnsPaymentURL(t *testing.T) {
	t.Parallel()

	svc := &fakeCheckoutService{result: &services.CheckoutResult{
		OrderID:    uuid.New(),
		Reference:  "KV-20260901-654321",
		PaymentURL: "https://securecheckout.sandbox.hit-pay.com/payment-request/@x/pr_1",
	}}
	h := newTestHandlers(t, testDeps{checkout: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"items":[{"productId":1,"quantity":1}],"totalAmount":205}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var result services.CheckoutResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.PaymentURL != svc.result.PaymentURL {
		t.Errorf("PaymentURL = %q", result.PaymentURL)
	}
}

func TestCheckoutValidationErrorIdentifiesField(t *testing.T) {
	t.Parallel()

	svc := &fakeCheckoutService{err: &checkout.ValidationError{
		Field:   "email",
		Reason:  checkout.ReasonMalformed,
		Message: "email address is not valid",
	}}
	h := newTestHandlers(t, testDeps{checkout: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Field != "email" {
		t.Errorf("Field = %q, want email", resp.Field)
	}
}

func TestCheckoutGatewayFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	svc := &fakeCheckoutService{err: services.ErrPaymentGateway}
	h := newTestHandlers(t, testDeps{checkout: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestCheckoutRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, testDeps{})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
