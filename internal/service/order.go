package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/config"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/money"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/trm"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/pkg/utils"
)

const orderIDPrefix = "CLEO"

var idSuffixChars = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

type OrderRepo interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)

	// Save operations are idempotent, the repo uses ON CONFLICT DO NOTHING
	SaveOrder(ctx context.Context, o entities.Order) error
	SaveShipping(ctx context.Context, orderID string, s entities.ShippingInfo) error
	SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error

	UpdateOrderPayment(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error
	PruneOrders(ctx context.Context, keep int) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	policy    config.Checkout
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache, policy config.Checkout) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		policy:    policy,
	}
}

// CreateOrder prices the item snapshots, attaches the shipping info and
// persists the new order in pending_payment. Totals always satisfy
// total = subtotal + shipping + tax; shipping is waived above the
// free-shipping threshold.
func (s *orderService) CreateOrder(ctx context.Context, items []entities.OrderItem, shipping entities.ShippingInfo, method entities.PaymentMethod) (entities.Order, error) {
	if len(items) == 0 {
		return entities.Order{}, entities.ErrEmptyCart
	}
	if !method.Valid() {
		return entities.Order{}, entities.ErrUnsupportedMethod
	}

	prices := make([]float64, len(items))
	quantities := make([]int, len(items))
	for i, it := range items {
		prices[i] = it.Price
		quantities[i] = it.Quantity
	}

	subtotal := money.Subtotal(prices, quantities)

	shippingCost := s.policy.ShippingFee
	if subtotal > s.policy.FreeShippingThreshold {
		shippingCost = 0
	}

	tax := money.Tax(subtotal, s.policy.TaxRate)

	now := time.Now()
	order := entities.Order{
		OrderID:      newOrderID(),
		Items:        items,
		Shipping:     shipping,
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Tax:          tax,
		Total:        subtotal + shippingCost + tax,
		Method:       method,
		Status:       entities.StatusPendingPayment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	fn := func() error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			if err := s.repo.SaveOrder(ctx, order); err != nil {
				return fmt.Errorf("failed to save order: %w", err)
			}
			if err := s.repo.SaveShipping(ctx, order.OrderID, order.Shipping); err != nil {
				return fmt.Errorf("failed to save shipping info: %w", err)
			}
			if err := s.repo.SaveItems(ctx, order.OrderID, order.Items); err != nil {
				return fmt.Errorf("failed to save order items: %w", err)
			}
			return nil
		})
	}

	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn); err != nil {
		return entities.Order{}, err
	}

	if err := s.repo.PruneOrders(ctx, s.policy.RetentionMax); err != nil {
		// retention is housekeeping, the order itself is already saved
		s.logger.Warn("failed to prune orders", slog.Any("error", err))
	}

	s.cacheOrder(order)
	s.logger.Debug("order created", slog.String("order_id", order.OrderID), slog.Float64("total", order.Total))
	return order, nil
}

// UpdateOrderPayment moves the order along the payment state machine.
// Re-applying the current status is a no-op in effect (timestamps still
// refresh), so gateway webhook retries stay harmless. Any other
// transition must be allowed by the forward-only table.
func (s *orderService) UpdateOrderPayment(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error {
	if !status.Valid() {
		return entities.ErrInvalidStatus
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != status && !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", entities.ErrIllegalTransition, order.Status, status)
	}

	fn := func() error {
		return s.repo.UpdateOrderPayment(ctx, orderID, status, transactionID)
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, entities.ErrOrderNotFound); err != nil {
		return err
	}

	order.Status = status
	if transactionID != "" {
		order.TransactionID = transactionID
	}
	order.UpdatedAt = time.Now()
	s.cacheOrder(order)

	s.logger.Debug("order payment updated", "order_id", orderID, "status", string(status))
	return nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal order", slog.String("order_id", orderID), slog.Any("error", err))
			return entities.Order{}, err
		}
		return order, nil
	}

	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, orderID)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	s.cacheOrder(order)
	return order, nil
}

func (s *orderService) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	return s.repo.LatestOrders(ctx, count)
}

func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	orders, err := s.repo.LatestOrders(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to warm up cache: %w", err)
	}
	for _, order := range orders {
		s.cacheOrder(order)
	}
	s.logger.Info("cache warmed up", slog.Int("orders", len(orders)))
	return nil
}

func (s *orderService) cacheOrder(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.String("order_id", order.OrderID), slog.Any("error", err))
		return
	}
	s.cache.Set(order.OrderID, data)
}

// newOrderID builds ids like CLEO-1756600000000-x7Kq2Z. Collisions are
// accepted as negligible.
func newOrderID() string {
	return fmt.Sprintf("%s-%d-%s", orderIDPrefix, time.Now().UnixMilli(), randomSuffix(6))
}

func randomSuffix(length int) string {
	id := make([]rune, length)
	for i := range id {
		id[i] = idSuffixChars[rand.Intn(len(idSuffixChars))]
	}
	return string(id)
}
