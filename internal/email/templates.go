// Package email provides email templates.
package email

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/karvanashop/karvana/internal/models"
)

const shopName = "Karvana"

// OrderInfo carries the rendered-value view of an order for templates.
type OrderInfo struct {
	OrderNumber     string
	CustomerName    string
	CustomerEmail   string
	OrderDate       string
	Items           []LineItem
	Subtotal        string
	Shipping        string
	Discount        string
	Total           string
	ShippingAddress string
	ConfirmationURL string
}

// LineItem represents a single item in an order email.
type LineItem struct {
	Name       string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

// BuildOrderInfo flattens an order into display strings for the templates.
func BuildOrderInfo(order *models.Order) *OrderInfo {
	info := &OrderInfo{
		OrderNumber:     order.Reference,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		OrderDate:       order.CreatedAt.Format("2 January 2006"),
		Subtotal:        formatSGD(order.Subtotal),
		Shipping:        formatSGD(order.ShippingCost),
		Discount:        formatSGD(order.DiscountAmount),
		Total:           formatSGD(order.TotalAmount),
		ShippingAddress: formatAddress(order),
	}
	for _, item := range order.Items {
		info.Items = append(info.Items, LineItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  formatSGD(item.UnitPrice),
			TotalPrice: formatSGD(item.UnitPrice * float64(item.Quantity)),
		})
	}
	return info
}

func formatSGD(amount float64) string {
	return fmt.Sprintf("S$%.2f", amount)
}

func formatAddress(order *models.Order) string {
	lines := []string{order.Address1}
	if order.Address2 != "" {
		lines = append(lines, order.Address2)
	}
	lines = append(lines, fmt.Sprintf("%s %s", order.City, order.PostalCode), order.Country)
	return strings.Join(lines, "\n")
}

// Renderer provides methods to render email templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer creates an email template renderer with the built-in templates.
func NewRenderer() (*Renderer, error) {
	bodies := map[string]struct{ html, text string }{
		"order_confirmation": {orderConfirmationHTML, orderConfirmationText},
		"order_shipped":      {orderShippedHTML, orderShippedText},
		"order_delivered":    {orderDeliveredHTML, orderDeliveredText},
	}

	tmpl := template.New("email")
	for key, body := range bodies {
		if _, err := tmpl.New(key + "_html").Parse(body.html); err != nil {
			return nil, fmt.Errorf("failed to parse HTML template %s: %w", key, err)
		}
		if _, err := tmpl.New(key + "_text").Parse(body.text); err != nil {
			return nil, fmt.Errorf("failed to parse text template %s: %w", key, err)
		}
	}

	return &Renderer{templates: tmpl}, nil
}

// Render renders an email template with the given data.
func (r *Renderer) Render(ctx context.Context, templateName string, data *OrderInfo) (*Email, error) {
	var htmlBuf, textBuf bytes.Buffer

	if err := r.templates.ExecuteTemplate(&htmlBuf, templateName+"_html", data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	if err := r.templates.ExecuteTemplate(&textBuf, templateName+"_text", data); err != nil {
		return nil, fmt.Errorf("failed to render text template: %w", err)
	}

	subject := ""
	switch templateName {
	case "order_confirmation":
		subject = fmt.Sprintf("Order Confirmed - %s - %s", data.OrderNumber, shopName)
	case "order_shipped":
		subject = fmt.Sprintf("Your Order Has Shipped - %s - %s", data.OrderNumber, shopName)
	case "order_delivered":
		subject = fmt.Sprintf("Your Order Has Been Delivered - %s", data.OrderNumber)
	}

	return &Email{
		To:      data.CustomerEmail,
		Subject: subject,
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

func send(ctx context.Context, p Provider, templateName string, orderInfo *OrderInfo) error {
	if p == nil {
		return nil
	}

	renderer, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	email, err := renderer.Render(ctx, templateName, orderInfo)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.SendEmail(ctx, email)
}

// SendOrderConfirmation sends an order confirmation email.
func SendOrderConfirmation(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return send(ctx, p, "order_confirmation", orderInfo)
}

// SendOrderShipped sends an order shipped email.
func SendOrderShipped(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return send(ctx, p, "order_shipped", orderInfo)
}

// SendOrderDelivered sends an order delivered email.
func SendOrderDelivered(ctx context.Context, p Provider, orderInfo *OrderInfo) error {
	return send(ctx, p, "order_delivered", orderInfo)
}

const orderConfirmationText = `Thank you for your order!

Order Number: {{.OrderNumber}}
Order Date: {{.OrderDate}}

Items:
{{range .Items}}
- {{.Name}} x{{.Quantity}} - {{.TotalPrice}}
{{end}}

Subtotal: {{.Subtotal}}
Shipping: {{.Shipping}}
Discount: {{.Discount}}
Total: {{.Total}}

Shipping to:
{{.ShippingAddress}}

{{if .ConfirmationURL}}View your order: {{.ConfirmationURL}}{{end}}

We'll send you another email when your order ships.

Thank you for shopping with Karvana!
`

const orderConfirmationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Confirmation</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .order-info { background: white; padding: 15px; border-radius: 6px; margin: 15px 0; }
    .items-table { width: 100%; border-collapse: collapse; margin: 15px 0; }
    .items-table th { text-align: left; padding: 10px; background: #f3f4f6; border-bottom: 2px solid #e5e7eb; }
    .items-table td { padding: 10px; border-bottom: 1px solid #e5e7eb; }
    .total { font-size: 18px; font-weight: bold; text-align: right; padding: 15px 0; }
    .footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
    .button { display: inline-block; background: #0f766e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Order Confirmed!</h1>
    <p>Thank you for your order, {{.CustomerName}}</p>
  </div>
  <div class="content">
    <div class="order-info">
      <strong>Order Number:</strong> {{.OrderNumber}}<br>
      <strong>Order Date:</strong> {{.OrderDate}}
    </div>

    <h3>Order Summary</h3>
    <table class="items-table">
      <thead>
        <tr>
          <th>Item</th>
          <th>Qty</th>
          <th>Price</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{.Quantity}}</td>
          <td>{{.TotalPrice}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="total">
      <p>Subtotal: {{.Subtotal}}</p>
      <p>Shipping: {{.Shipping}}</p>
      <p>Discount: {{.Discount}}</p>
      <p>Total: {{.Total}}</p>
    </div>

    <p>We'll send you another email when your order ships.</p>
    {{if .ConfirmationURL}}<p><a href="{{.ConfirmationURL}}" class="button">View Your Order</a></p>{{end}}
  </div>
  <div class="footer">
    <p>Thank you for shopping with Karvana</p>
  </div>
</body>
</html>
`

const orderShippedText = `Great news! Your order has shipped!

Order Number: {{.OrderNumber}}

Shipping Address:
{{.ShippingAddress}}

We'll let you know when your package is delivered!

Thank you for shopping with Karvana!
`

const orderShippedHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Shipped</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #059669; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Your Order Has Shipped!</h1>
    <p>Great news, {{.CustomerName}}! Your order is on its way.</p>
  </div>
  <div class="content">
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>

    <h3>Shipping Address</h3>
    <p>{{.ShippingAddress}}</p>

    <p>We'll let you know when your package is delivered!</p>
  </div>
  <div class="footer">
    <p>Thank you for shopping with Karvana</p>
  </div>
</body>
</html>
`

const orderDeliveredText = `Your order has been delivered!

Order Number: {{.OrderNumber}}

Your package should have arrived at:
{{.ShippingAddress}}

We hope you enjoy your purchase! If you have any questions or concerns, please don't hesitate to reach out.

Thank you for shopping with Karvana!
`

const orderDeliveredHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Delivered</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #7c3aed; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Your Order Has Been Delivered!</h1>
    <p>Your package has arrived, {{.CustomerName}}!</p>
  </div>
  <div class="content">
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>

    <h3>Delivered To</h3>
    <p>{{.ShippingAddress}}</p>

    <p>We hope you enjoy your purchase! If you have any questions or concerns about your order, please don't hesitate to reach out.</p>
  </div>
  <div class="footer">
    <p>Thank you for shopping with Karvana</p>
  </div>
</body>
</html>
`
