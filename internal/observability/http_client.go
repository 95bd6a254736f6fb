package observability

import (
	"net/http"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

// Trace headers only go to the payment gateway; propagating them to
// arbitrary hosts would leak trace ids.
var tracePropagationTargets = []string{
	"api.hit-pay.com",
	"api.sandbox.hit-pay.com",
}

// WrapRoundTripper instruments base with Sentry spans for outbound calls.
func WrapRoundTripper(base http.RoundTripper) http.RoundTripper {
	return sentryhttpclient.NewSentryRoundTripper(
		base,
		sentryhttpclient.WithTracePropagationTargets(tracePropagationTargets),
	)
}

// NewHTTPClient builds the instrumented client used for gateway calls.
// A timeout of zero means no client-side timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: WrapRoundTripper(http.DefaultTransport),
		Timeout:   timeout,
	}
}
