package checkout

import (
	"errors"
	"fmt"
	"math"

	"github.com/karvanashop/karvana/internal/models"
)

// TotalEpsilon bounds the acceptable drift between the client's total and
// the server-computed one. Anything beyond it is treated as tampering.
const TotalEpsilon = 0.01

var (
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInactiveProduct = errors.New("product not available")
	ErrTotalMismatch   = errors.New("order total does not match server pricing")
)

// PricedOrder is the authoritative pricing of a submission. Every monetary
// figure in it comes from the product catalog, never from the client.
type PricedOrder struct {
	Items          []models.OrderItem
	Subtotal       float64
	ShippingCost   float64
	DiscountAmount float64
	TotalAmount    float64
}

type Pricer struct{}

func NewPricer() *Pricer {
	return &Pricer{}
}

// Reprice rebuilds the order lines from catalog prices and checks the
// client's claimed total against the server-side figure. Shipping and
// discount are carried from the submission; unit prices never are.
func (p *Pricer) Reprice(sub *Submission, refs []models.ProductRef) (*PricedOrder, error) {
	byID := make(map[int]models.ProductRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}

	priced := &PricedOrder{
		Items:          make([]models.OrderItem, 0, len(sub.Items)),
		ShippingCost:   sub.ShippingCost,
		DiscountAmount: sub.DiscountAmount,
	}
	for _, item := range sub.Items {
		ref, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownProduct, item.ProductID)
		}
		if !ref.IsActive {
			return nil, fmt.Errorf("%w: id %d", ErrInactiveProduct, item.ProductID)
		}
		priced.Items = append(priced.Items, models.OrderItem{
			ProductID: ref.ID,
			Name:      ref.Name,
			Image:     ref.Image,
			UnitPrice: ref.Price,
			Quantity:  item.Quantity,
		})
		priced.Subtotal += ref.Price * float64(item.Quantity)
	}

	priced.TotalAmount = priced.Subtotal + priced.ShippingCost - priced.DiscountAmount
	if math.Abs(priced.TotalAmount-sub.TotalAmount) > TotalEpsilon {
		return nil, fmt.Errorf("%w: submitted %.2f, computed %.2f",
			ErrTotalMismatch, sub.TotalAmount, priced.TotalAmount)
	}
	return priced, nil
}
