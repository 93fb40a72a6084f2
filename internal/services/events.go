package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedRoutingKey is the routing key of checkout events.
const OrderCreatedRoutingKey = "order.created"

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }

// OrderCreatedEvent is the payload of an order.created event.
type OrderCreatedEvent struct {
	OrderID     uint             `json:"order_id"`
	UserID      uint             `json:"user_id"`
	Status      string           `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Items       []OrderEventItem `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OrderEventItem is one line of an OrderCreatedEvent.
type OrderEventItem struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (e OrderCreatedEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// HandleOrderCreated processes an order.created message by logging it.
// Malformed payloads are reported as errors.
func HandleOrderCreated(body []byte) error {
	var event OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed order event: %w", err)
	}
	if event.OrderID == 0 {
		return fmt.Errorf("order event without order id")
	}
	log.Printf("Order %d created for user %d: %d item(s), total %s",
		event.OrderID, event.UserID, len(event.Items), event.TotalAmount.StringFixed(2))
	return nil
}
