package repositories

import (
	"context"

	"market/internal/models"
)

// CartRepository defines the interface for cart data access. Cart lines are
// removed physically; they are not soft-deleted entities.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	Get(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	Delete(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
}
