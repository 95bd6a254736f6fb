package hitpay

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/karvanashop/karvana/internal/crypto"
)

// Header names used by the V2 (JSON) webhook protocol.
const (
	SignatureHeader   = "HitPay-Signature"
	EventTypeHeader   = "HitPay-Event-Type"
	EventObjectHeader = "HitPay-Event-Object"
)

// EventObjectCharge is the only V2 event object the reconciler processes;
// everything else is acknowledged without action.
const EventObjectCharge = "charge"

// V1Event is the legacy form-encoded webhook payload.
type V1Event struct {
	PaymentID          string
	RecurringBillingID string
	Amount             string
	Currency           string
	Status             string
	Reference          string
}

// V2Event is the current JSON webhook payload for charge events.
type V2Event struct {
	ID              string         `json:"id"`
	BusinessID      string         `json:"business_id"`
	Status          string         `json:"status"`
	Amount          float64        `json:"amount"`
	Currency        string         `json:"currency"`
	OrderID         string         `json:"order_id"`
	ReferenceNumber string         `json:"reference_number"`
	PaymentMethod   *PaymentMethod `json:"payment_method"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`

	// EventObject comes from the HitPay-Event-Object header, not the body.
	EventObject string `json:"-"`
}

type PaymentMethod struct {
	Type     string `json:"type"`
	Brand    string `json:"brand"`
	LastFour string `json:"last_four"`
}

// AmountValue parses the form-encoded amount into dollars.
func (e *V1Event) AmountValue() (float64, error) {
	amount, err := strconv.ParseFloat(e.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid webhook amount %q: %w", e.Amount, err)
	}
	return amount, nil
}

// Method returns the charge's payment method, never nil.
func (e *V2Event) Method() PaymentMethod {
	if e.PaymentMethod == nil {
		return PaymentMethod{}
	}
	return *e.PaymentMethod
}

// CreatedAtTime parses the charge timestamp. HitPay has shipped both
// RFC3339 and a bare datetime; an unparseable value yields the zero time.
func (e *V2Event) CreatedAtTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, e.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsV2Request reports whether the inbound webhook uses the JSON protocol.
// V2 deliveries carry a JSON content type plus the HitPay signature header;
// everything else falls back to the legacy form variant.
func IsV2Request(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return false
	}
	return r.Header.Get(SignatureHeader) != "" || strings.Contains(r.UserAgent(), "HitPay")
}

// ReadV1Event parses and verifies a legacy form-encoded webhook. The HMAC
// field must equal the HMAC-SHA256 of the remaining fields' sorted
// key+value concatenation under the shared salt.
func ReadV1Event(r *http.Request, salt string) (*V1Event, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse webhook form: %w", err)
	}

	signature := r.PostForm.Get("hmac")
	if signature == "" {
		return nil, crypto.ErrMissingSignature
	}

	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		if key == "hmac" {
			continue
		}
		fields[key] = r.PostForm.Get(key)
	}

	if err := crypto.VerifyFields(salt, fields, signature); err != nil {
		return nil, err
	}

	event := &V1Event{
		PaymentID:          r.PostForm.Get("payment_id"),
		RecurringBillingID: r.PostForm.Get("recurring_billing_id"),
		Amount:             r.PostForm.Get("amount"),
		Currency:           r.PostForm.Get("currency"),
		Status:             r.PostForm.Get("status"),
		Reference:          r.PostForm.Get("reference"),
	}
	if event.Reference == "" {
		return nil, fmt.Errorf("webhook missing reference")
	}
	return event, nil
}

// ReadV2Event verifies and parses a JSON webhook. The signature covers the
// raw body bytes exactly as delivered; verifying a re-serialized form of
// the payload would break on key order or whitespace.
func ReadV2Event(r *http.Request, salt string) (*V2Event, error) {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return nil, crypto.ErrMissingSignature
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}

	if err := crypto.Verify(salt, body, signature); err != nil {
		return nil, err
	}

	var event V2Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	event.EventObject = r.Header.Get(EventObjectHeader)
	return &event, nil
}
