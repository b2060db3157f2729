package notify_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() entities.Order {
	return entities.Order{
		OrderID: "CLEO-1-abc",
		Items: []entities.OrderItem{
			{Name: "Caja de regalo", Price: 89000, Quantity: 1},
			{Name: "Ramo de rosas", Price: 45000, Quantity: 2},
		},
		Shipping:     entities.ShippingInfo{FullName: "Ana María Pérez"},
		Subtotal:     179000,
		ShippingCost: 15000,
		Tax:          34010,
		Total:        228010,
	}
}

func TestWhatsAppLink(t *testing.T) {
	link := notify.WhatsAppLink("573001112233", testOrder())

	require.True(t, strings.HasPrefix(link, "https://wa.me/573001112233?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")

	assert.Contains(t, text, "CLEO-1-abc")
	assert.Contains(t, text, "1x Caja de regalo")
	assert.Contains(t, text, "2x Ramo de rosas")
	assert.Contains(t, text, "Subtotal: $179.000")
	assert.Contains(t, text, "Envío: $15.000")
	assert.Contains(t, text, "IVA: $34.010")
	assert.Contains(t, text, "Total: $228.010")
	assert.Contains(t, text, "Ana María Pérez")
}

func TestWhatsAppLink_FreeShipping(t *testing.T) {
	order := testOrder()
	order.ShippingCost = 0

	link := notify.WhatsAppLink("573001112233", order)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")

	assert.Contains(t, text, "Envío: gratis")
	assert.NotContains(t, text, "Envío: $")
}
