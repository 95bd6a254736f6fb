package handlers

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/karvanashop/karvana/internal/observability"
)

// SecurityHeaders sets baseline headers on every response. The API serves
// JSON only, so the content security policy can deny everything.
func (h *Handlers) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		headers.Set("Cross-Origin-Opener-Policy", "same-origin")
		headers.Set("Cross-Origin-Resource-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}

// RequireSameOrigin rejects state-changing requests whose Origin or
// Referer points at a host we do not serve. It guards the admin API;
// the webhook and checkout endpoints stay outside it because gateway
// deliveries and storefront calls are legitimately cross-host.
func (h *Handlers) RequireSameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutatesState(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		meter := observability.MeterFromContext(r.Context())
		meter.SetAttributes(attribute.String("component", "security.same_origin"))
		meter.Count("security.same_origin.checked", 1)

		origin := strings.TrimSpace(r.Header.Get("Origin"))
		referer := strings.TrimSpace(r.Header.Get("Referer"))
		if origin == "" && referer == "" {
			h.blockCrossOrigin(w, r, meter, "missing_origin_and_referer", "")
			return
		}

		allowed := h.allowedHosts(r)
		for reason, value := range map[string]string{
			"invalid_origin":  origin,
			"invalid_referer": referer,
		} {
			if value == "" {
				continue
			}
			if _, ok := allowed[urlHost(value)]; !ok {
				h.blockCrossOrigin(w, r, meter, reason, value)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) blockCrossOrigin(w http.ResponseWriter, r *http.Request, meter sentry.Meter, reason, value string) {
	meter.Count("security.same_origin.blocked", 1, sentry.WithAttributes(attribute.String("reason", reason)))
	h.loggerFromContext(r.Context()).Warn("blocked cross-origin request",
		"reason", reason, "value", value, "method", r.Method, "path", r.URL.Path)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

func mutatesState(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// allowedHosts is the request's own host plus the configured API and
// storefront hosts, which differ when the two are deployed separately.
func (h *Handlers) allowedHosts(r *http.Request) map[string]struct{} {
	hosts := make(map[string]struct{}, 3)
	if host := hostOnly(r.Host); host != "" {
		hosts[host] = struct{}{}
	}
	for _, raw := range []string{h.config.BaseURL, h.config.ConfirmationBaseURL} {
		if host := urlHost(raw); host != "" {
			hosts[host] = struct{}{}
		}
	}
	return hosts
}

// urlHost extracts the lowercase hostname from a URL string, or "" when
// it cannot be parsed. An unparseable Origin never matches anything.
func urlHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func hostOnly(hostport string) string {
	hostport = strings.TrimSpace(hostport)
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(hostport)
}
