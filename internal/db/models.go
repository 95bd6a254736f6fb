package db

import "github.com/karvanashop/karvana/internal/models"

type Order = models.Order
type OrderItem = models.OrderItem
type OrderStatus = models.OrderStatus
type PaymentTransaction = models.PaymentTransaction
type PaymentStatus = models.PaymentStatus
type PaymentFields = models.PaymentFields
type Product = models.Product
type ProductRef = models.ProductRef

const (
	StatusPendingPayment   = models.StatusPendingPayment
	StatusPaymentFailed    = models.StatusPaymentFailed
	StatusAwaitingShipment = models.StatusAwaitingShipment
	StatusShipped          = models.StatusShipped
	StatusDelivered        = models.StatusDelivered
	StatusCancelled        = models.StatusCancelled
)

const (
	PaymentPending        = models.PaymentPending
	PaymentSucceeded      = models.PaymentSucceeded
	PaymentFailed         = models.PaymentFailed
	PaymentRequiresAction = models.PaymentRequiresAction
)
