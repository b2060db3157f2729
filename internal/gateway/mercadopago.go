package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
)

// MercadoPagoClient is the legacy gateway kept for stores that have not
// finished migrating. It never completes a payment: every request comes
// back as a pending transaction flagged for manual handling by the
// store operator.
type MercadoPagoClient struct {
	logger *slog.Logger
}

func NewMercadoPagoClient(logger *slog.Logger) *MercadoPagoClient {
	return &MercadoPagoClient{
		logger: logger.With(slog.String("gateway", "mercadopago")),
	}
}

func (c *MercadoPagoClient) CreatePayment(_ context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	reference := req.Reference
	if reference == "" {
		reference = mpReference()
	}

	c.logger.Info("payment routed to manual handling", slog.String("reference", reference))

	return entities.PaymentResult{
		Success: false,
		Transaction: entities.Transaction{
			ID:            "MP-" + reference,
			Status:        entities.TxPending,
			StatusMessage: "El pago requiere procesamiento manual, el equipo de la tienda se pondrá en contacto",
			AmountInCents: req.AmountInCents,
			Reference:     reference,
			CreatedAt:     time.Now(),
		},
	}, nil
}

func mpReference() string {
	return fmt.Sprintf("MP-%d-%06d", time.Now().UnixMilli(), rand.Intn(1_000_000))
}
