package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/linemk/ecommerce-api/internal/domain/models"
)

// OrderConfirmationData — данные письма-подтверждения заказа.
type OrderConfirmationData struct {
	UserName        string
	OrderID         string
	CreatedAt       string
	ShippingAddress string
	TotalAmount     string
	PaymentMethod   string
	OrderURL        string
}

// NewOrderConfirmation собирает письмо-подтверждение для созданного заказа.
func NewOrderConfirmation(user *models.User, order *models.Order, orderBaseURL string) (Message, error) {
	data := OrderConfirmationData{
		UserName:        user.UserName,
		OrderID:         order.ID,
		CreatedAt:       order.CreatedAt.Format("2006-01-02 15:04"),
		ShippingAddress: order.ShippingAddress,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		PaymentMethod:   order.PaymentMethod,
		OrderURL:        orderBaseURL + "/orders/" + order.ID,
	}

	tmpl, err := template.New("orderConfirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return Message{}, fmt.Errorf("failed to parse confirmation template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("failed to render confirmation template: %w", err)
	}

	return Message{
		To:      []string{user.Email},
		Subject: "Order confirmation #" + order.ID,
		HTML:    buf.String(),
	}, nil
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for your order, {{.UserName}}!</h2>
  <p>Your order <strong>{{.OrderID}}</strong> was created at {{.CreatedAt}}.</p>
  <table cellpadding="4">
    <tr><td>Total amount:</td><td><strong>{{.TotalAmount}}</strong></td></tr>
    <tr><td>Payment method:</td><td>{{.PaymentMethod}}</td></tr>
    {{if .ShippingAddress}}<tr><td>Shipping address:</td><td>{{.ShippingAddress}}</td></tr>{{end}}
  </table>
  <p><a href="{{.OrderURL}}">View your order</a></p>
</body>
</html>
`
