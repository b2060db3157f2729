package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"

	"github.com/google/uuid"
)

// Per-method approval probabilities for the simulated gateway.
const (
	mockCardSuccessRate   = 0.90
	mockBankSuccessRate   = 0.85
	mockWalletSuccessRate = 0.92
)

// MockGateway simulates the payment gateway for non-production builds:
// randomized outcomes with fixed weights per method and an artificial
// delay standing in for network latency.
type MockGateway struct {
	logger  *slog.Logger
	latency time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockGateway(logger *slog.Logger, seed int64, latency time.Duration) *MockGateway {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockGateway{
		logger:  logger.With(slog.String("gateway", "mock")),
		latency: latency,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

func (g *MockGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest) (entities.PaymentResult, error) {
	if err := g.sleep(ctx); err != nil {
		return entities.PaymentResult{}, err
	}

	var rate float64
	switch req.Method {
	case entities.MethodCard:
		rate = mockCardSuccessRate
	case entities.MethodBankRedirect:
		rate = mockBankSuccessRate
	case entities.MethodWallet:
		rate = mockWalletSuccessRate
	default:
		return entities.PaymentResult{}, entities.ErrUnsupportedMethod
	}

	g.mu.Lock()
	roll := g.rnd.Float64()
	g.mu.Unlock()

	reference := req.Reference
	if reference == "" {
		reference = mockReference()
	}

	now := time.Now()
	tx := entities.Transaction{
		ID:            "MOCK-" + uuid.NewString(),
		AmountInCents: req.AmountInCents,
		Reference:     reference,
		CreatedAt:     now,
		FinalizedAt:   &now,
	}

	if roll < rate {
		tx.Status = entities.TxApproved
		tx.StatusMessage = "Transacción aprobada"
		return entities.PaymentResult{Success: true, Transaction: tx}, nil
	}

	tx.Status = entities.TxDeclined
	tx.StatusMessage = declineMessage(req.Method)
	g.logger.Debug("simulated decline", slog.String("reference", reference), slog.String("method", string(req.Method)))
	return entities.PaymentResult{Success: false, Transaction: tx}, nil
}

func (g *MockGateway) sleep(ctx context.Context) error {
	if g.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(g.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func declineMessage(method entities.PaymentMethod) string {
	switch method {
	case entities.MethodCard:
		return "Tarjeta rechazada por el banco emisor"
	case entities.MethodBankRedirect:
		return "Transacción PSE rechazada"
	default:
		return "Pago rechazado"
	}
}

func mockReference() string {
	return fmt.Sprintf("MOCK-%d-%06d", time.Now().UnixMilli(), rand.Intn(1_000_000))
}
