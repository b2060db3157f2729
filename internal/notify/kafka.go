package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/config"
	"github.com/estebanjuangranados16-ops/cleopatra-regalos-sub001/internal/entities"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated   = "order.created"
	EventPaymentUpdated = "order.payment_updated"
)

type OrderEvent struct {
	Event         string  `json:"event"`
	OrderID       string  `json:"order_id"`
	Status        string  `json:"status"`
	Total         float64 `json:"total,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	OccurredAt    int64   `json:"occurred_at"`
}

// Publisher emits order lifecycle events to the notifications topic,
// where the mailer and the ops dashboard pick them up.
type Publisher struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("publisher", "notifications")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.NotificationsTopic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, order entities.Order) error {
	return p.publish(ctx, OrderEvent{
		Event:      EventOrderCreated,
		OrderID:    order.OrderID,
		Status:     string(order.Status),
		Total:      order.Total,
		OccurredAt: time.Now().Unix(),
	})
}

func (p *Publisher) PaymentUpdated(ctx context.Context, orderID string, status entities.PaymentStatus, transactionID string) error {
	return p.publish(ctx, OrderEvent{
		Event:         EventPaymentUpdated,
		OrderID:       orderID,
		Status:        string(status),
		TransactionID: transactionID,
		OccurredAt:    time.Now().Unix(),
	})
}

func (p *Publisher) publish(ctx context.Context, event OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	}); err != nil {
		p.logger.Error("failed to publish event", slog.String("event", event.Event), slog.Any("error", err))
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
