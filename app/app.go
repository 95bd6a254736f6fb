package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karvanashop/karvana/internal/cache"
	"github.com/karvanashop/karvana/internal/catalog"
	"github.com/karvanashop/karvana/internal/config"
	"github.com/karvanashop/karvana/internal/db"
	"github.com/karvanashop/karvana/internal/email"
	"github.com/karvanashop/karvana/internal/handlers"
	"github.com/karvanashop/karvana/internal/hitpay"
	"github.com/karvanashop/karvana/internal/observability"
	"github.com/karvanashop/karvana/internal/services"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	orderStore := db.NewOrderStore(database)
	productStore := db.NewProductStore(database)

	if cfg.CatalogSeedPath != "" {
		seeder := catalog.NewSeeder(productStore, logger.With("component", "catalog_seeder"))
		if err := seeder.SeedIfEmpty(startupCtx, cfg.CatalogSeedPath); err != nil {
			closeCacheProvider(logger, cacheProvider)
			database.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	gateway := hitpay.NewClient(cfg.HitPayAPIKey, cfg.HitPayEnvironment, observability.NewHTTPClient(30*time.Second))

	emailProvider := email.NewProvider(email.Config{
		APIKey: cfg.ResendAPIKey,
		From:   cfg.EmailFrom,
	})
	if cfg.ResendAPIKey != "" {
		if err := emailProvider.ValidateAPIKey(startupCtx); err != nil {
			logger.Warn("email provider API key validation failed, order emails may not send", "error", err)
		}
	}
	orderEmailer := services.NewProviderOrderEmailSender(emailProvider, cfg.ConfirmationURL())

	checkoutService := services.NewCheckoutService(
		productStore,
		orderStore,
		gateway,
		services.CheckoutConfig{
			Currency:        cfg.Currency,
			WebhookURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/webhooks/hitpay",
			ConfirmationURL: cfg.ConfirmationURL(),
		},
		logger.With("component", "checkout_service"),
	)
	paymentService := services.NewPaymentService(orderStore, orderEmailer, logger.With("component", "payment_service"))
	adminService := services.NewAdminService(orderStore, productStore, orderEmailer, logger.With("component", "admin_service"))
	authService := services.NewAuthService(cfg.AdminPassword, cfg.AdminJWTSecret)

	h, err := handlers.New(handlers.Dependencies{
		Config:          cfg,
		DB:              database,
		OrderStore:      orderStore,
		ProductStore:    productStore,
		CacheProvider:   cacheProvider,
		CheckoutService: checkoutService,
		PaymentService:  paymentService,
		AdminService:    adminService,
		AuthService:     authService,
		Logger:          logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		CacheProvider: cacheProvider,
		Handlers:      h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "text", "":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
