package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/suprmushrooms/storefront/internal/config"
	"github.com/suprmushrooms/storefront/internal/models"
	"gopkg.in/gomail.v2"
)

// Mailer sends order confirmation emails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	store  config.StoreConfig
}

func NewMailer(cfg config.SMTPConfig, store config.StoreConfig) (*Mailer, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP_EMAIL and SMTP_PASSWORD must be set")
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
		from:   cfg.Email,
		store:  store,
	}, nil
}

func (m *Mailer) SendOrderConfirmation(to string, order *models.Order) error {
	html, err := renderConfirmation(m.store, m.from, order)
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.store.Name)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order Confirmation %s", order.Reference()))
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	return nil
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #bc6c25; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { padding: 20px; background: #fefae0; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; background: white; }
    th { background: #faedcd; padding: 10px; text-align: left; }
    td { padding: 8px; border-bottom: 1px solid #eee; }
    .total { font-size: 20px; font-weight: bold; color: #bc6c25; text-align: right; padding-top: 10px; }
    .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>{{.Store.Name}}</h1>
    </div>
    <div class="content">
      <h2>Thank you for your order!</h2>
      <p><strong>Order ID:</strong> {{.Order.Reference}}</p>
      <p><strong>Payment:</strong> {{.Order.PaymentMethod}}</p>
      <p><strong>Status:</strong> {{.Order.Status}}</p>

      <h3>Order Items:</h3>
      <table>
        <thead><tr><th>Product</th><th>Qty</th><th>Price</th></tr></thead>
        <tbody>
          {{range .Order.Items}}
          <tr>
            <td>{{.ProductName}}</td>
            <td>{{.Quantity}}</td>
            <td>&#8377;{{.Subtotal}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>

      {{if .Order.DiscountApplied.IsPositive}}
      <p>Discount applied{{with .Order.CouponCode}} ({{.}}){{end}}: &#8377;{{.Order.DiscountApplied}}</p>
      {{end}}
      <div class="total">Total: &#8377;{{.Order.TotalAmount}}</div>

      <h3>Delivery To:</h3>
      <p>{{.Order.ShippingAddress}}</p>
    </div>
    <div class="footer">
      <p>{{.From}}{{if .Store.SupportPhone}} | {{.Store.SupportPhone}}{{end}}</p>
    </div>
  </div>
</body>
</html>
`))

func renderConfirmation(store config.StoreConfig, from string, order *models.Order) (string, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		Store config.StoreConfig
		Order *models.Order
		From  string
	}{store, order, from})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
