// Package gateway holds the payment adapters. Every adapter consumes
// the same normalized request and returns the same normalized result;
// callers must handle both failure channels: an error return means
// transport failure, Success=false means the gateway itself declined.
//
// The adapters deliberately share no code. Each one is independently
// swappable and carries its own copies of the small helpers (minor
// units, phone normalization, reference generation).
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/config"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
)

type Gateway interface {
	CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error)
}

// New picks the adapter by the configured provider: the real Wompi
// client in production deployments, the simulated client everywhere
// else, and the legacy MercadoPago stub for stores still migrating.
func New(logger *slog.Logger, cfg config.Payment) (Gateway, error) {
	switch cfg.Provider {
	case "wompi":
		return NewWompiClient(logger, cfg), nil
	case "mock":
		return NewMockGateway(logger, cfg.MockSeed, cfg.MockLatency), nil
	case "mercadopago":
		return NewMercadoPagoClient(logger), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
