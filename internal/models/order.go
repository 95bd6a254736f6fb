package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPendingPayment   OrderStatus = "pending_payment"
	StatusPaymentFailed    OrderStatus = "payment_failed"
	StatusAwaitingShipment OrderStatus = "awaiting_shipment"
	StatusShipped          OrderStatus = "shipped"
	StatusDelivered        OrderStatus = "delivered"
	StatusCancelled        OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed from the status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusDelivered
}

type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "pending"
	PaymentSucceeded      PaymentStatus = "succeeded"
	PaymentFailed         PaymentStatus = "failed"
	PaymentRequiresAction PaymentStatus = "requires_action"
)

// OrderItem captures the product at order time. Unit price, name and image
// are snapshots; later catalog changes never alter historical orders.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID             uuid.UUID   `json:"id"`
	Reference      string      `json:"reference"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	CustomerPhone  string      `json:"customer_phone"`
	Address1       string      `json:"address1"`
	Address2       string      `json:"address2"`
	City           string      `json:"city"`
	PostalCode     string      `json:"postal_code"`
	Country        string      `json:"country"`
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	DiscountAmount float64     `json:"discount_amount"`
	ShippingCost   float64     `json:"shipping_cost"`
	TotalAmount    float64     `json:"total_amount"`
	CustomerNotes  string      `json:"customer_notes"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Payment *PaymentTransaction `json:"payment,omitempty"`
}

// PaymentTransaction is the 1:1 gateway record for an order. It shares the
// order's reference code, which is the only identifier HitPay echoes back
// on webhooks.
type PaymentTransaction struct {
	OrderID           uuid.UUID     `json:"order_id"`
	PaymentRequestID  string        `json:"payment_request_id"`
	PaymentID         string        `json:"payment_id"`
	Reference         string        `json:"reference"`
	Status            PaymentStatus `json:"status"`
	AmountCharged     float64       `json:"amount_charged"`
	Currency          string        `json:"currency"`
	MethodType        string        `json:"method_type"`
	MethodBrand       string        `json:"method_brand"`
	MethodLast4       string        `json:"method_last4"`
	TransactionAt     time.Time     `json:"transaction_at"`
	WebhookReceivedAt time.Time     `json:"webhook_received_at"`
}

// PaymentFields carries the transaction attributes written exactly once by
// the webhook reconciler.
type PaymentFields struct {
	PaymentID         string
	Status            PaymentStatus
	AmountCharged     float64
	Currency          string
	MethodType        string
	MethodBrand       string
	MethodLast4       string
	TransactionAt     time.Time
	WebhookReceivedAt time.Time
}
