package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/karvanashop/karvana/internal/db"
	"github.com/karvanashop/karvana/internal/logging"
	"github.com/karvanashop/karvana/internal/models"
)

// AdminService covers fulfilment transitions and catalog management for
// the authenticated back office.
type AdminService struct {
	orders      *db.OrderStore
	products    *db.ProductStore
	emailSender OrderEmailSender
	logger      *slog.Logger
}

func NewAdminService(orders *db.OrderStore, products *db.ProductStore, emailSender OrderEmailSender, logger *slog.Logger) *AdminService {
	if emailSender == nil {
		emailSender = noopOrderEmailSender{}
	}
	return &AdminService{
		orders:      orders,
		products:    products,
		emailSender: emailSender,
		logger:      logger,
	}
}

const defaultOrderListLimit = 50

func (s *AdminService) ListOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultOrderListLimit
	}
	return s.orders.ListRecent(ctx, limit)
}

func (s *AdminService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ShipOrder moves a paid order into shipped and notifies the customer.
func (s *AdminService) ShipOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.fulfil(ctx, orderID, s.orders.MarkShipped, s.emailSender.SendOrderShipped, "order shipped")
}

// DeliverOrder closes out a shipped order and notifies the customer.
func (s *AdminService) DeliverOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.fulfil(ctx, orderID, s.orders.MarkDelivered, s.emailSender.SendOrderDelivered, "order delivered")
}

// CancelOrder voids any non-terminal order. No email goes out; cancellation
// is usually discussed with the customer first.
func (s *AdminService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if err := s.orders.Cancel(ctx, orderID); err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("order cancelled", "order_id", orderID)
	return s.orders.GetByID(ctx, orderID)
}

func (s *AdminService) fulfil(
	ctx context.Context,
	orderID uuid.UUID,
	transition func(context.Context, uuid.UUID) error,
	notify func(context.Context, *models.Order) error,
	message string,
) (*models.Order, error) {
	logger := logging.FromContext(ctx, s.logger)

	if err := transition(ctx, orderID); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	logger.Info(message, "order_id", orderID, "reference", order.Reference)
	if emailErr := notify(ctx, order); emailErr != nil {
		logger.Warn("failed to send order status email", "error", emailErr, "order_id", orderID)
	}
	return order, nil
}

func (s *AdminService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.products.List(ctx)
}

func (s *AdminService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	logging.FromContext(ctx, s.logger).Info("product created", "product_id", product.ID, "name", product.Name)
	return nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return err
	}
	logging.FromContext(ctx, s.logger).Info("product updated", "product_id", product.ID)
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx, s.logger).Info("product deleted", "product_id", id)
	return nil
}

func validateProduct(product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if product.Price <= 0 {
		return fmt.Errorf("product price must be positive")
	}
	return nil
}
