package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

// PaymentEvent mirrors the payload the payment provider's webhook
// bridge publishes.
type PaymentEvent struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

var statuses = []string{"approved", "declined", "cancelled", "refunded"}

func randomString(n int) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func generateRandomEvent(orderID string) PaymentEvent {
	return PaymentEvent{
		OrderID:       orderID,
		Status:        statuses[rand.Intn(len(statuses))],
		TransactionID: "TX-" + randomString(12),
	}
}

func main() {
	addr := kafka.TCP("localhost:9092")

	writer := &kafka.Writer{
		Addr:  addr,
		Topic: "payment-events",
	}

	// Pass a real order id to exercise the happy path; without one the
	// consumer routes every event to the DLQ.
	orderID := ""
	if len(os.Args) > 1 {
		orderID = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	for {
		select {
		case <-ticker.C:
			id := orderID
			if id == "" {
				id = fmt.Sprintf("CLEO-%d-%s", time.Now().UnixMilli(), randomString(6))
			}
			event := generateRandomEvent(id)
			data, _ := json.Marshal(event)
			writer.WriteMessages(context.Background(), kafka.Message{Value: data})
			log.Println("payment event generated", event.OrderID, event.Status)
		case <-ctx.Done():
			return
		}
	}
}
