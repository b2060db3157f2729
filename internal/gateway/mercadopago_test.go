package gateway_test

import (
	"context"
	"strings"
	"testing"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMercadoPagoClient_AlwaysManual(t *testing.T) {
	client := gateway.NewMercadoPagoClient(newTestLogger())

	result, err := client.CreatePayment(context.Background(), entities.PaymentRequest{
		Method:        entities.MethodCard,
		Reference:     "CLEO-1-abc",
		AmountInCents: 12091000,
	})
	require.NoError(t, err)

	// never succeeds, never errors: the pending transaction flags the
	// order for manual handling
	assert.False(t, result.Success)
	assert.Equal(t, entities.TxPending, result.Transaction.Status)
	assert.Equal(t, "MP-CLEO-1-abc", result.Transaction.ID)
	assert.NotEmpty(t, result.Transaction.StatusMessage)
}

func TestMercadoPagoClient_GeneratesReference(t *testing.T) {
	client := gateway.NewMercadoPagoClient(newTestLogger())

	result, err := client.CreatePayment(context.Background(), entities.PaymentRequest{
		Method: entities.MethodWallet,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Transaction.Reference, "MP-"))
	assert.Equal(t, entities.TxPending, result.Transaction.Status)
}
