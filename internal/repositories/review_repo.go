package repositories

import (
	"context"

	"market/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	ListActive(ctx context.Context) ([]models.Review, error)
	ListActiveByProduct(ctx context.Context, productID uint) ([]models.Review, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Review, error)
	ExistsActive(ctx context.Context, userID, productID uint) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Deactivate(ctx context.Context, id uint) error
	// AverageGrade returns the mean grade of the product's active reviews,
	// or nil when it has none.
	AverageGrade(ctx context.Context, productID uint) (*float64, error)
}
