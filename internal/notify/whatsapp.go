package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/money"
)

// WhatsAppLink builds the deep link that opens a chat with the store,
// pre-filled with a human-readable order summary. phone is the store's
// number in international format without the plus sign.
func WhatsAppLink(phone string, order entities.Order) string {
	var b strings.Builder
	b.WriteString("¡Hola! Acabo de realizar un pedido 🛍️\n\n")
	b.WriteString(fmt.Sprintf("Pedido: %s\n\n", order.OrderID))

	for _, it := range order.Items {
		b.WriteString(fmt.Sprintf("• %dx %s — %s\n", it.Quantity, it.Name, money.FormatPrice(it.Price)))
	}

	b.WriteString(fmt.Sprintf("\nSubtotal: %s\n", money.FormatPrice(order.Subtotal)))
	if order.ShippingCost > 0 {
		b.WriteString(fmt.Sprintf("Envío: %s\n", money.FormatPrice(order.ShippingCost)))
	} else {
		b.WriteString("Envío: gratis\n")
	}
	b.WriteString(fmt.Sprintf("IVA: %s\n", money.FormatPrice(order.Tax)))
	b.WriteString(fmt.Sprintf("Total: %s\n\n", money.FormatPrice(order.Total)))
	b.WriteString(fmt.Sprintf("A nombre de: %s", order.Shipping.FullName))

	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(b.String()))
}
