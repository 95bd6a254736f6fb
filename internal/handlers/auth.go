package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/karvanashop/karvana/internal/services"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AdminLogin exchanges the admin password for a bearer token.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.loggerFromContext(ctx).Warn("admin login rejected", "remote_ip", clientIP(r))
			h.writeError(ctx, w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.loggerFromContext(ctx).Error("admin login failed", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "login failed")
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, loginResponse{Token: token})
}

// RequireAdmin guards the admin API with a bearer token check.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.writeError(r.Context(), w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if err := h.authService.VerifyToken(token); err != nil {
			h.loggerFromContext(r.Context()).Warn("rejected admin token", "remote_ip", clientIP(r))
			h.writeError(r.Context(), w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
