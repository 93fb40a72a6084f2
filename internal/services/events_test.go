package services_test

import (
	"context"
	"testing"

	"market/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOrderCreated(t *testing.T) {
	body, err := services.OrderCreatedEvent{
		OrderID:     12,
		UserID:      3,
		Status:      "pending",
		TotalAmount: decimal.RequireFromString("19.90"),
		Items:       []services.OrderEventItem{{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("9.95")}},
	}.Marshal()
	require.NoError(t, err)
	assert.NoError(t, services.HandleOrderCreated(body))

	assert.Error(t, services.HandleOrderCreated([]byte("not json")))
	assert.Error(t, services.HandleOrderCreated([]byte(`{"user_id": 3}`)))
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, services.NoopPublisher{}.Publish(context.Background(), services.OrderCreatedRoutingKey, []byte("{}")))
}
