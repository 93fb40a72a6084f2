package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"market/internal/apperr"
	"market/internal/models"
	"market/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = apperr.NotFound("Order not found")
	ErrNotOrderOwner = apperr.Forbidden("You can only view your own orders")
	ErrEmptyCart     = apperr.BadRequest("Cart is empty")
	ErrInvalidStatus = apperr.BadRequest("Invalid order status")
)

var orderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// OrderService handles business logic related to orders.
type OrderService struct {
	tx          repositories.Transactor
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(tx repositories.Transactor, orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &OrderService{
		tx:          tx,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// Checkout turns userID's cart into a pending order. Stock is decremented,
// unit prices are frozen and the cart is cleared in one transaction; the
// order.created event is published once it commits.
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order *models.Order
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		items, err := s.cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order = &models.Order{UserID: userID, Status: models.OrderStatusPending, TotalAmount: decimal.Zero}
		for _, item := range items {
			product, err := s.productRepo.GetActiveByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return apperr.BadRequest(fmt.Sprintf("Product %d is no longer available", item.ProductID))
				}
				return err
			}
			if err := s.productRepo.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				if errors.Is(err, repositories.ErrInsufficientStock) {
					return apperr.BadRequest(fmt.Sprintf("Insufficient stock for product %s", product.Name))
				}
				return err
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			order.Items = append(order.Items, models.OrderItem{
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
				TotalPrice: lineTotal,
			})
			order.TotalAmount = order.TotalAmount.Add(lineTotal)
		}

		if err := s.orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return s.cartRepo.Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, order)
	return order, nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	event := OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, OrderEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	body, err := event.Marshal()
	if err != nil {
		log.Printf("Failed to marshal order %d event: %v", order.ID, err)
		return
	}
	// The order is committed; a lost event is logged, not returned.
	if err := s.publisher.Publish(ctx, OrderCreatedRoutingKey, body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %d: %v", order.ID, err)
	}
}

// GetUserOrders returns one page of userID's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if page < 1 || pageSize < 1 {
		return nil, 0, apperr.BadRequest("page and page_size must be positive")
	}
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, total, nil
}

// GetOrderByID returns an order visible to user: its owner, or any admin.
func (s *OrderService) GetOrderByID(ctx context.Context, user *models.User, id uint) (*models.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID && user.Role != models.RoleAdmin {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !orderStatuses[status] {
		return nil, ErrInvalidStatus
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound.Wrap(err)
		}
		return nil, err
	}
	return s.findOrder(ctx, id)
}

func (s *OrderService) findOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound.Wrap(err)
		}
		return nil, err
	}
	return order, nil
}
