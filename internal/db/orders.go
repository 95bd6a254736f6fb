package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderNotFound           = errors.New("order not found")
)

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Create persists the order, its line items, and the initial pending
// payment transaction in a single transaction. Status is always forced to
// pending_payment regardless of what the caller set.
func (s *OrderStore) Create(ctx context.Context, order *Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.Status = StatusPendingPayment

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (
			id, reference, customer_name, customer_email, customer_phone,
			address1, address2, city, postal_code, country,
			subtotal, discount_amount, shipping_cost, total_amount,
			customer_notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`,
		order.ID, order.Reference, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.Address1, order.Address2, order.City, order.PostalCode, order.Country,
		order.Subtotal, order.DiscountAmount, order.ShippingCost, order.TotalAmount,
		order.CustomerNotes, string(order.Status),
	)
	if err := row.Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, order.ID, item.ProductID, item.Name, item.Image, item.UnitPrice, item.Quantity); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	currency := ""
	if order.Payment != nil {
		currency = order.Payment.Currency
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO payment_transactions (order_id, reference, status, currency)
		VALUES ($1, $2, $3, $4)
	`, order.ID, order.Reference, string(PaymentPending), currency); err != nil {
		return fmt.Errorf("failed to insert payment transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	order.Payment = &PaymentTransaction{
		OrderID:   order.ID,
		Reference: order.Reference,
		Status:    PaymentPending,
		Currency:  currency,
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	return s.getOrder(ctx, `WHERE o.id = $1`, orderID)
}

// GetByReference locates an order by its gateway reference code. This is
// the only lookup available to the webhook reconciler; HitPay never learns
// the internal order id.
func (s *OrderStore) GetByReference(ctx context.Context, reference string) (*Order, error) {
	return s.getOrder(ctx, `WHERE o.reference = $1`, reference)
}

func (s *OrderStore) getOrder(ctx context.Context, where string, arg any) (*Order, error) {
	order := &Order{}
	var status string
	row := s.pool.QueryRow(ctx, `
		SELECT o.id, o.reference, o.customer_name, o.customer_email, o.customer_phone,
		       o.address1, o.address2, o.city, o.postal_code, o.country,
		       o.subtotal, o.discount_amount, o.shipping_cost, o.total_amount,
		       o.customer_notes, o.status, o.created_at, o.updated_at
		FROM orders o `+where, arg)
	err := row.Scan(
		&order.ID, &order.Reference, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.Address1, &order.Address2, &order.City, &order.PostalCode, &order.Country,
		&order.Subtotal, &order.DiscountAmount, &order.ShippingCost, &order.TotalAmount,
		&order.CustomerNotes, &status, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order.Status = OrderStatus(status)

	if err := s.loadItems(ctx, order); err != nil {
		return nil, err
	}
	if err := s.loadTransaction(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) loadItems(ctx context.Context, order *Order) error {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, name, image, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Image, &item.UnitPrice, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (s *OrderStore) loadTransaction(ctx context.Context, order *Order) error {
	txn := &PaymentTransaction{OrderID: order.ID}
	var (
		requestID, paymentID, methodType, methodBrand, methodLast4 *string
		amountCharged                                              *float64
		transactionAt, webhookReceivedAt                           *time.Time
		status                                                     string
	)
	row := s.pool.QueryRow(ctx, `
		SELECT reference, status, currency, payment_request_id, payment_id,
		       amount_charged, method_type, method_brand, method_last4,
		       transaction_at, webhook_received_at
		FROM payment_transactions WHERE order_id = $1
	`, order.ID)
	err := row.Scan(
		&txn.Reference, &status, &txn.Currency, &requestID, &paymentID,
		&amountCharged, &methodType, &methodBrand, &methodLast4,
		&transactionAt, &webhookReceivedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load payment transaction: %w", err)
	}

	txn.Status = PaymentStatus(status)
	if requestID != nil {
		txn.PaymentRequestID = *requestID
	}
	if paymentID != nil {
		txn.PaymentID = *paymentID
	}
	if amountCharged != nil {
		txn.AmountCharged = *amountCharged
	}
	if methodType != nil {
		txn.MethodType = *methodType
	}
	if methodBrand != nil {
		txn.MethodBrand = *methodBrand
	}
	if methodLast4 != nil {
		txn.MethodLast4 = *methodLast4
	}
	if transactionAt != nil {
		txn.TransactionAt = *transactionAt
	}
	if webhookReceivedAt != nil {
		txn.WebhookReceivedAt = *webhookReceivedAt
	}
	order.Payment = txn
	return nil
}

// AttachPaymentRequest records the gateway-side payment request id after a
// successful create-payment call.
func (s *OrderStore) AttachPaymentRequest(ctx context.Context, orderID uuid.UUID, paymentRequestID string) error {
	cmdTag, err := s.pool.Exec(ctx, `
		UPDATE payment_transactions SET payment_request_id = $1 WHERE order_id = $2
	`, paymentRequestID, orderID)
	if err != nil {
		return fmt.Errorf("failed to attach payment request id: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ApplyPaymentOutcome performs the single legal webhook-driven transition
// out of pending_payment and writes the transaction's payment fields, as
// one atomic unit. The status guard on the UPDATE is what makes duplicate
// webhook deliveries safe without a lock: the second delivery affects zero
// rows and surfaces as ErrInvalidStatusTransition.
func (s *OrderStore) ApplyPaymentOutcome(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus, fields PaymentFields) error {
	if newStatus != StatusAwaitingShipment && newStatus != StatusPaymentFailed {
		return fmt.Errorf("%w: %s is not a payment outcome", ErrInvalidStatusTransition, newStatus)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending_payment'
	`, string(newStatus), orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expected pending_payment", ErrInvalidStatusTransition)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE payment_transactions
		SET payment_id = $1, status = $2, amount_charged = $3, currency = $4,
		    method_type = NULLIF($5, ''), method_brand = NULLIF($6, ''), method_last4 = NULLIF($7, ''),
		    transaction_at = $8, webhook_received_at = $9
		WHERE order_id = $10
	`, fields.PaymentID, string(fields.Status), fields.AmountCharged, fields.Currency,
		fields.MethodType, fields.MethodBrand, fields.MethodLast4,
		fields.TransactionAt, fields.WebhookReceivedAt, orderID); err != nil {
		return fmt.Errorf("failed to update payment transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payment outcome: %w", err)
	}
	return nil
}

func (s *OrderStore) MarkShipped(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, StatusShipped, "status = 'awaiting_shipment'", "expected awaiting_shipment")
}

func (s *OrderStore) MarkDelivered(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, StatusDelivered, "status = 'shipped'", "expected shipped")
}

// Cancel is reachable from any non-terminal state. Orders are never
// deleted, only transitioned.
func (s *OrderStore) Cancel(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, StatusCancelled, "status NOT IN ('cancelled', 'delivered')", "order already terminal")
}

func (s *OrderStore) transition(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus, guard, expectation string) error {
	cmdTag, err := s.pool.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND `+guard, string(newStatus), orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidStatusTransition, expectation)
	}
	return nil
}

func (s *OrderStore) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM orders ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]*Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
