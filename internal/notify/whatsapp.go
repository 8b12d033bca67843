package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

// WhatsAppLink builds the wa.me deep link carrying a prefilled order
// summary. Pure string formatting, no network.
func WhatsAppLink(number string, order models.OrderWithItems) string {
	var b strings.Builder

	b.WriteString("🌮 *Nuevo Pedido*\n\n")
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📞 *Teléfono:* %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "📍 *Dirección:* %s\n", Address(order.Order))

	if order.Mode == models.ModeDelivery && order.DeliveryReferences != nil {
		fmt.Fprintf(&b, "📝 *Referencias:* %s\n", *order.DeliveryReferences)
	}
	if order.Mode == models.ModePickup && order.PickupTime != nil {
		fmt.Fprintf(&b, "🕐 *Hora de recolección:* %s\n", *order.PickupTime)
	}

	b.WriteString("\n📋 *Pedido:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s - $%.2f\n", item.Quantity, item.ProductName, item.Subtotal)
	}

	fmt.Fprintf(&b, "\n💰 *Total:* $%.2f", order.Total)

	if order.KitchenNotes != "" {
		fmt.Fprintf(&b, "\n🍳 *Notas:* %s", order.KitchenNotes)
	}

	return "https://wa.me/" + number + "?text=" + url.QueryEscape(b.String())
}
