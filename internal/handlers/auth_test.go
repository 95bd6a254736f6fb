package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAdminLoginAndGuardedAccess(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, testDeps{})

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"admin-password-123"}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}

	guarded := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	authed := httptest.NewRequest(http.MethodGet, "/admin/api/orders", nil)
	authed.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, authed)
	if rec.Code != http.StatusOK {
		t.Fatalf("guarded status = %d, want 200", rec.Code)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, testDeps{})

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"nope"}`))
	rec := httptest.NewRecorder()
	h.AdminLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminRejectsMissingAndBadTokens(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, testDeps{})
	guarded := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/admin/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
