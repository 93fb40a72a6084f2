package repositories

import (
	"context"

	"market/internal/models"
	"market/internal/search"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Search(ctx context.Context, params search.Params) ([]models.Product, int64, error)
	ListActiveByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id uint) error
	UpdateRating(ctx context.Context, id uint, rating float64) error
	DecrementStock(ctx context.Context, id uint, quantity int) error
}
