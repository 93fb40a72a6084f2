package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"market/internal/apperr"
	"market/internal/models"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	cartService := services.NewCartService(inlineTransactor{}, carts, products)

	products.On("GetActiveByID", ctx, uint(1)).Return(&models.Product{ID: 1, SellerID: 7, Stock: 5, Price: decimal.NewFromInt(10)}, nil)
	products.On("GetActiveByID", ctx, uint(2)).Return(&models.Product{ID: 2, SellerID: 8, Stock: 0}, nil)

	_, err := cartService.AddItem(ctx, 7, 1, 1)
	assert.ErrorIs(t, err, services.ErrOwnProduct)

	_, err = cartService.AddItem(ctx, 3, 2, 1)
	assert.ErrorIs(t, err, services.ErrOutOfStock)

	_, err = cartService.AddItem(ctx, 3, 1, 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	// An existing line grows instead of being duplicated.
	carts.On("Get", ctx, uint(3), uint(1)).Return(&models.CartItem{ID: 4, UserID: 3, ProductID: 1, Quantity: 2}, nil).Once()
	carts.On("UpdateQuantity", ctx, uint(4), 5).Return(nil).Once()
	carts.On("ListByUser", ctx, uint(3)).Return([]models.CartItem{
		{ID: 4, ProductID: 1, Quantity: 5, Product: models.Product{ID: 1, Price: decimal.RequireFromString("10.50")}},
		{ID: 5, ProductID: 9, Quantity: 1, Product: models.Product{ID: 9, Price: decimal.RequireFromString("0.25")}},
	}, nil).Once()

	cart, err := cartService.AddItem(ctx, 3, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, cart.TotalQuantity)
	assert.Equal(t, "52.75", cart.TotalPrice.StringFixed(2))
	carts.AssertExpectations(t)
}

func TestCartService_MissingLines(t *testing.T) {
	ctx := context.Background()
	carts := new(MockCartRepository)
	cartService := services.NewCartService(inlineTransactor{}, carts, new(MockProductRepository))

	carts.On("Get", ctx, uint(3), uint(1)).Return(nil, repositories.ErrNotFound).Once()
	_, err := cartService.UpdateItem(ctx, 3, 1, 2)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)

	carts.On("Delete", ctx, uint(3), uint(1)).Return(repositories.ErrNotFound).Once()
	err = cartService.RemoveItem(ctx, 3, 1)
	assert.Equal(t, 404, apperr.StatusCode(err))
	carts.AssertExpectations(t)
}

func newOrderService(carts *MockCartRepository, orders *MockOrderRepository, products *MockProductRepository, publisher services.EventPublisher) *services.OrderService {
	return services.NewOrderService(inlineTransactor{}, orders, carts, products, publisher)
}

func TestOrderService_CheckoutFreezesPricesAndPublishes(t *testing.T) {
	ctx := context.Background()
	carts := new(MockCartRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	publisher := new(MockPublisher)
	orderService := newOrderService(carts, orders, products, publisher)

	carts.On("ListByUser", ctx, uint(3)).Return([]models.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}, nil).Once()
	products.On("GetActiveByID", ctx, uint(1)).Return(&models.Product{ID: 1, Name: "Mug", Price: decimal.RequireFromString("8.40"), Stock: 5}, nil).Once()
	products.On("GetActiveByID", ctx, uint(2)).Return(&models.Product{ID: 2, Name: "Tea", Price: decimal.RequireFromString("3.10"), Stock: 1}, nil).Once()
	products.On("DecrementStock", ctx, uint(1), 2).Return(nil).Once()
	products.On("DecrementStock", ctx, uint(2), 1).Return(nil).Once()
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	carts.On("Clear", ctx, uint(3)).Return(nil).Once()

	var published services.OrderCreatedEvent
	publisher.On("Publish", ctx, services.OrderCreatedRoutingKey, mock.Anything).Run(func(args mock.Arguments) {
		require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &published))
	}).Return(nil).Once()

	order, err := orderService.Checkout(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "19.90", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "8.40", order.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "16.80", order.Items[0].TotalPrice.StringFixed(2))

	assert.Equal(t, order.ID, published.OrderID)
	assert.Len(t, published.Items, 2)
	assert.True(t, published.TotalAmount.Equal(order.TotalAmount))

	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
	products.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CheckoutFailures(t *testing.T) {
	ctx := context.Background()
	carts := new(MockCartRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	publisher := new(MockPublisher)
	orderService := newOrderService(carts, orders, products, publisher)

	carts.On("ListByUser", ctx, uint(1)).Return([]models.CartItem{}, nil).Once()
	_, err := orderService.Checkout(ctx, 1)
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	carts.On("ListByUser", ctx, uint(2)).Return([]models.CartItem{{ProductID: 1, Quantity: 9}}, nil).Once()
	products.On("GetActiveByID", ctx, uint(1)).Return(&models.Product{ID: 1, Name: "Mug", Price: decimal.NewFromInt(8), Stock: 2}, nil).Once()
	products.On("DecrementStock", ctx, uint(1), 9).Return(repositories.ErrInsufficientStock).Once()
	_, err = orderService.Checkout(ctx, 2)
	assert.Equal(t, 400, apperr.StatusCode(err))

	carts.On("ListByUser", ctx, uint(4)).Return([]models.CartItem{{ProductID: 6, Quantity: 1}}, nil).Once()
	products.On("GetActiveByID", ctx, uint(6)).Return(nil, repositories.ErrNotFound).Once()
	_, err = orderService.Checkout(ctx, 4)
	assert.Equal(t, 400, apperr.StatusCode(err))

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PublishFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	carts := new(MockCartRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	publisher := new(MockPublisher)
	orderService := newOrderService(carts, orders, products, publisher)

	carts.On("ListByUser", ctx, uint(3)).Return([]models.CartItem{{ProductID: 1, Quantity: 1}}, nil).Once()
	products.On("GetActiveByID", ctx, uint(1)).Return(&models.Product{ID: 1, Price: decimal.NewFromInt(8), Stock: 2}, nil).Once()
	products.On("DecrementStock", ctx, uint(1), 1).Return(nil).Once()
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	carts.On("Clear", ctx, uint(3)).Return(nil).Once()
	publisher.On("Publish", ctx, services.OrderCreatedRoutingKey, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := orderService.Checkout(ctx, 3)
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestOrderService_Access(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	orderService := newOrderService(new(MockCartRepository), orders, new(MockProductRepository), nil)

	orders.On("GetByID", ctx, uint(1)).Return(&models.Order{ID: 1, UserID: 3}, nil)
	orders.On("GetByID", ctx, uint(2)).Return(nil, repositories.ErrNotFound)

	_, err := orderService.GetOrderByID(ctx, &models.User{ID: 4, Role: models.RoleBuyer}, 1)
	assert.ErrorIs(t, err, services.ErrNotOrderOwner)

	_, err = orderService.GetOrderByID(ctx, &models.User{ID: 3, Role: models.RoleBuyer}, 1)
	assert.NoError(t, err)

	_, err = orderService.GetOrderByID(ctx, &models.User{ID: 99, Role: models.RoleAdmin}, 1)
	assert.NoError(t, err)

	_, err = orderService.GetOrderByID(ctx, &models.User{ID: 3}, 2)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	_, err = orderService.UpdateOrderStatus(ctx, 1, "lost")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	orders.On("UpdateStatus", ctx, uint(1), models.OrderStatusShipped).Return(nil).Once()
	_, err = orderService.UpdateOrderStatus(ctx, 1, models.OrderStatusShipped)
	assert.NoError(t, err)

	orders.On("ListByUser", ctx, uint(3), 10, 10).Return([]models.Order{}, int64(11), nil).Once()
	list, total, err := orderService.GetUserOrders(ctx, 3, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int64(11), total)
	orders.AssertExpectations(t)
}
