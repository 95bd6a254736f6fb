package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/karvanashop/karvana/internal/config"
	"github.com/karvanashop/karvana/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	// Gateway webhooks carry no Origin header and must bypass the
	// same-origin check; their HMAC is the authentication.
	r.HandleFunc("/webhooks/hitpay", h.HitPayWebhook).Methods("POST").Name("webhooks.hitpay")

	// Storefront API
	r.HandleFunc("/api/products", h.ListProducts).Methods("GET").Name("api.products")
	r.HandleFunc("/api/products/{id}", h.GetProduct).Methods("GET").Name("api.products.get")
	r.HandleFunc("/api/checkout", h.Checkout).Methods("POST").Name("api.checkout")
	r.HandleFunc("/api/orders/{id}", h.GetOrder).Methods("GET").Name("api.orders.get")

	// Public admin routes
	r.HandleFunc("/admin/login", h.AdminLogin).Methods("POST").Name("admin.login")

	// Protected admin API - requires a bearer token
	adminRouter := r.PathPrefix("/admin/api").Subrouter()
	adminRouter.Use(h.RequireAdmin)
	adminRouter.Use(h.RequireSameOrigin)
	adminRouter.HandleFunc("/orders", h.AdminListOrders).Methods("GET").Name("admin.orders")
	adminRouter.HandleFunc("/orders/{id}", h.AdminGetOrder).Methods("GET").Name("admin.orders.get")
	adminRouter.HandleFunc("/orders/{id}/ship", h.AdminShipOrder).Methods("POST").Name("admin.orders.ship")
	adminRouter.HandleFunc("/orders/{id}/deliver", h.AdminDeliverOrder).Methods("POST").Name("admin.orders.deliver")
	adminRouter.HandleFunc("/orders/{id}/cancel", h.AdminCancelOrder).Methods("POST").Name("admin.orders.cancel")
	adminRouter.HandleFunc("/products", h.AdminListProducts).Methods("GET").Name("admin.products")
	adminRouter.HandleFunc("/products", h.AdminCreateProduct).Methods("POST").Name("admin.products.create")
	adminRouter.HandleFunc("/products/{id}", h.AdminUpdateProduct).Methods("PUT").Name("admin.products.update")
	adminRouter.HandleFunc("/products/{id}", h.AdminDeleteProduct).Methods("DELETE").Name("admin.products.delete")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}
