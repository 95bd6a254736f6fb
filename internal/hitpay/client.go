// Package hitpay provides the HitPay payment gateway client and webhook
// verification for both live protocol variants.
package hitpay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	ProductionBaseURL = "https://api.hit-pay.com"
	SandboxBaseURL    = "https://api.sandbox.hit-pay.com"
)

// Client talks to the HitPay payment-requests API. HitPay has no Go SDK;
// the API is plain form-encoded HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client. environment selects sandbox or
// production endpoints.
func NewClient(apiKey, environment string, httpClient *http.Client) *Client {
	baseURL := SandboxBaseURL
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		baseURL = ProductionBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// PaymentRequestParams holds the fields sent to HitPay when creating a
// payment request.
type PaymentRequestParams struct {
	Amount          float64
	Currency        string
	Email           string
	Name            string
	Phone           string
	Purpose         string
	ReferenceNumber string
	WebhookURL      string
	RedirectURL     string
}

// PaymentRequest is the subset of HitPay's create response the caller
// needs: the gateway-side request id and the hosted checkout URL.
type PaymentRequest struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	ReferenceNumber string `json:"reference_number"`
	URL             string `json:"url"`
	RedirectURL     string `json:"redirect_url"`
	Webhook         string `json:"webhook"`
	CreatedAt       string `json:"created_at"`
}

// CreatePaymentRequest issues the payment-request call. The amount is
// formatted to exactly two decimal places as the gateway requires.
func (c *Client) CreatePaymentRequest(ctx context.Context, params PaymentRequestParams) (*PaymentRequest, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("hitpay api key is required")
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%.2f", params.Amount))
	form.Set("currency", params.Currency)
	form.Set("email", params.Email)
	form.Set("webhook", params.WebhookURL)
	form.Set("redirect_url", params.RedirectURL)
	form.Set("reference_number", params.ReferenceNumber)
	form.Set("name", params.Name)
	form.Set("phone", params.Phone)
	form.Set("purpose", params.Purpose)
	form.Set("send_email", "true")
	form.Set("allow_repeated_payments", "false")
	form.Set("add_admin_fee", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment-requests", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("X-BUSINESS-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hitpay api error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var paymentRequest PaymentRequest
	if err := json.Unmarshal(body, &paymentRequest); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	if paymentRequest.ID == "" || paymentRequest.URL == "" {
		return nil, fmt.Errorf("hitpay response missing payment request id or url")
	}
	return &paymentRequest, nil
}
