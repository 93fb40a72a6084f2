package repositories

import (
	"context"

	"market/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Deactivate(ctx context.Context, id uint) error
}
