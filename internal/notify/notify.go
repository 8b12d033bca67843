// Package notify implements the best-effort outbound channels fired
// after a successful order submission: a transactional email to the
// kitchen and a prefilled WhatsApp deep link for the customer.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tacosmaster/taqueria-api/internal/config"
	"github.com/tacosmaster/taqueria-api/internal/models"
)

// EmailNotifier posts the new-order email through an HTTP mail API.
type EmailNotifier struct {
	client   *resty.Client
	mail     config.MailConfig
	business config.BusinessConfig
	tmpl     *template.Template
}

// NewEmailNotifier creates a notifier for the configured mail API.
func NewEmailNotifier(mail config.MailConfig, business config.BusinessConfig) *EmailNotifier {
	return &EmailNotifier{
		client:   resty.New().SetTimeout(10 * time.Second),
		mail:     mail,
		business: business,
		tmpl:     template.Must(template.New("order-email").Parse(orderEmailTemplate)),
	}
}

type emailData struct {
	Business    string
	OrderID     string
	Customer    string
	Phone       string
	ModeLabel   string
	Address     string
	PickupTime  string
	Notes       string
	Items       []models.OrderItem
	Subtotal    string
	DeliveryFee string
	Total       string
}

// SendOrderNotification renders and posts the new-order email. Errors
// are returned for logging only; callers never let them affect the
// order.
func (n *EmailNotifier) SendOrderNotification(ctx context.Context, order models.OrderWithItems) error {
	data := emailData{
		Business:    n.business.Name,
		OrderID:     order.ID,
		Customer:    order.CustomerName,
		Phone:       order.CustomerPhone,
		ModeLabel:   modeLabel(order.Mode),
		Address:     Address(order.Order),
		Notes:       order.KitchenNotes,
		Items:       order.Items,
		Subtotal:    fmt.Sprintf("%.2f", order.Subtotal),
		DeliveryFee: fmt.Sprintf("%.2f", order.DeliveryFee),
		Total:       fmt.Sprintf("%.2f", order.Total),
	}
	if order.PickupTime != nil {
		data.PickupTime = *order.PickupTime
	}

	var body bytes.Buffer
	if err := n.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render order email: %w", err)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+n.mail.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"from":    n.mail.From,
			"to":      []string{n.mail.To},
			"subject": fmt.Sprintf("Nuevo pedido de %s - $%.2f", order.CustomerName, order.Total),
			"html":    body.String(),
		}).
		Post(n.mail.APIURL)
	if err != nil {
		return fmt.Errorf("send order email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api returned %d: %s", resp.StatusCode(), resp.Body())
	}
	return nil
}

// Nop is used when no mail channel is configured.
type Nop struct{}

func (Nop) SendOrderNotification(ctx context.Context, order models.OrderWithItems) error {
	return nil
}

// Address formats the fulfillment location line for an order.
func Address(order models.Order) string {
	if order.Mode == models.ModeDelivery {
		street, number, neighborhood := deref(order.Street), deref(order.HouseNumber), deref(order.Neighborhood)
		return fmt.Sprintf("%s #%s, %s", street, number, neighborhood)
	}
	return "Recoger en local"
}

func modeLabel(mode models.OrderMode) string {
	if mode == models.ModeDelivery {
		return "A Domicilio"
	}
	return "Pasar a Recoger"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const orderEmailTemplate = `<h2>🌮 {{.Business}} - Nuevo Pedido</h2>
<p><strong>Pedido:</strong> {{.OrderID}}</p>
<p><strong>Cliente:</strong> {{.Customer}}<br>
<strong>Teléfono:</strong> {{.Phone}}<br>
<strong>Entrega:</strong> {{.ModeLabel}}<br>
<strong>Dirección:</strong> {{.Address}}{{if .PickupTime}}<br>
<strong>Hora de recolección:</strong> {{.PickupTime}}{{end}}</p>
<table cellpadding="8" cellspacing="0">
{{range .Items}}<tr>
<td style="border-bottom: 1px solid #eee;">{{.Quantity}}x {{.ProductName}}</td>
<td style="border-bottom: 1px solid #eee; text-align: right;">${{printf "%.2f" .Subtotal}}</td>
</tr>{{end}}
</table>
<p><strong>Subtotal:</strong> ${{.Subtotal}}<br>
<strong>Envío:</strong> ${{.DeliveryFee}}<br>
<strong>Total:</strong> ${{.Total}}</p>
{{if .Notes}}<p><strong>Notas de cocina:</strong> {{.Notes}}</p>{{end}}`
