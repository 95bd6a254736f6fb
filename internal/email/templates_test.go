package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/karvanashop/karvana/internal/models"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		Reference:     "KV-20260901-123456",
		CustomerName:  "Tan Mei Ling",
		CustomerEmail: "mei.ling@example.com",
		Address1:      "12 Bukit Timah Road",
		Address2:      "#05-01",
		City:          "Singapore",
		PostalCode:    "238858",
		Country:       "Singapore",
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Folding Wheelchair", UnitPrice: 100, Quantity: 2},
		},
		Subtotal:     200,
		ShippingCost: 5,
		TotalAmount:  205,
		CreatedAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildOrderInfo(t *testing.T) {
	t.Parallel()

	info := BuildOrderInfo(sampleOrder())

	if info.OrderNumber != "KV-20260901-123456" {
		t.Errorf("OrderNumber = %q", info.OrderNumber)
	}
	if info.Total != "S$205.00" {
		t.Errorf("Total = %q, want S$205.00", info.Total)
	}
	if len(info.Items) != 1 || info.Items[0].TotalPrice != "S$200.00" {
		t.Errorf("Items = %+v", info.Items)
	}
	if !strings.Contains(info.ShippingAddress, "#05-01") {
		t.Errorf("ShippingAddress = %q, missing unit line", info.ShippingAddress)
	}
	if info.OrderDate != "1 September 2026" {
		t.Errorf("OrderDate = %q", info.OrderDate)
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	t.Parallel()

	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	info := BuildOrderInfo(sampleOrder())
	msg, err := renderer.Render(context.Background(), "order_confirmation", info)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if msg.To != "mei.ling@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "KV-20260901-123456") {
		t.Errorf("Subject = %q, missing order number", msg.Subject)
	}
	if !strings.Contains(msg.Text, "S$205.00") {
		t.Error("text body missing total")
	}
	if !strings.Contains(msg.HTML, "Folding Wheelchair") {
		t.Error("HTML body missing line item")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	t.Parallel()

	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	if _, err := renderer.Render(context.Background(), "order_refunded", &OrderInfo{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNewProviderFallsBackToNoop(t *testing.T) {
	t.Parallel()

	p := NewProvider(Config{})
	if _, ok := p.(NoopProvider); !ok {
		t.Fatalf("NewProvider() = %T, want NoopProvider", p)
	}
	if err := p.SendEmail(context.Background(), &Email{To: "x@example.com"}); err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}
}
