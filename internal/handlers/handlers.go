package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karvanashop/karvana/internal/cache"
	"github.com/karvanashop/karvana/internal/checkout"
	"github.com/karvanashop/karvana/internal/config"
	"github.com/karvanashop/karvana/internal/logging"
	"github.com/karvanashop/karvana/internal/models"
	"github.com/karvanashop/karvana/internal/services"
)

const maxBodyBytes = 1 << 20 // 1 MB

type checkoutService interface {
	Submit(ctx context.Context, sub *checkout.Submission) (*services.CheckoutResult, error)
}

type paymentService interface {
	Reconcile(ctx context.Context, outcome services.PaymentOutcome) (*services.ReconcileResult, error)
}

type adminService interface {
	ListOrders(ctx context.Context, limit int) ([]*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ShipOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	DeliverOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error
}

type authService interface {
	Login(password string) (string, error)
	VerifyToken(token string) error
}

type orderReader interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
}

type productReader interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
}

// Handlers provides the HTTP handlers for the storefront API, the HitPay
// webhook endpoint and the admin API.
type Handlers struct {
	config          *config.Config
	db              *pgxpool.Pool
	orderStore      orderReader
	productStore    productReader
	cacheProvider   cache.Provider
	checkoutService checkoutService
	paymentService  paymentService
	adminService    adminService
	authService     authService
	logger          *slog.Logger
}

type Dependencies struct {
	Config          *config.Config
	DB              *pgxpool.Pool
	OrderStore      orderReader
	ProductStore    productReader
	CacheProvider   cache.Provider
	CheckoutService checkoutService
	PaymentService  paymentService
	AdminService    adminService
	AuthService     authService
	Logger          *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.OrderStore == nil {
		return nil, fmt.Errorf("handlers dependencies: orderStore is required")
	}
	if deps.ProductStore == nil {
		return nil, fmt.Errorf("handlers dependencies: productStore is required")
	}
	if deps.CacheProvider == nil {
		return nil, fmt.Errorf("handlers dependencies: cacheProvider is required")
	}
	if deps.CheckoutService == nil {
		return nil, fmt.Errorf("handlers dependencies: checkoutService is required")
	}
	if deps.PaymentService == nil {
		return nil, fmt.Errorf("handlers dependencies: paymentService is required")
	}
	if deps.AdminService == nil {
		return nil, fmt.Errorf("handlers dependencies: adminService is required")
	}
	if deps.AuthService == nil {
		return nil, fmt.Errorf("handlers dependencies: authService is required")
	}

	return &Handlers{
		config:          deps.Config,
		db:              deps.DB,
		orderStore:      deps.OrderStore,
		productStore:    deps.ProductStore,
		cacheProvider:   deps.CacheProvider,
		checkoutService: deps.CheckoutService,
		paymentService:  deps.PaymentService,
		adminService:    deps.AdminService,
		authService:     deps.AuthService,
		logger:          logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			logger.Error("database health check failed", "error", err)
			http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
			return
		}
	}

	h.writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(ctx).Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *Handlers) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	h.writeJSON(ctx, w, status, errorResponse{Error: message})
}
