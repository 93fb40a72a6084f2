package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"market/internal/models"

	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) ListActive(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := conn(ctx, r.db).Where("is_active = ?", true).Order("id").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) ListActiveByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := conn(ctx, r.db).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of product %d: %w", productID, err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) GetActiveByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := conn(ctx, r.db).First(&review, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return &review, nil
}

func (r *GORMReviewRepository) ExistsActive(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Review{}).
		Where("user_id = ? AND product_id = ? AND is_active = ?", userID, productID, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up review: %w", err)
	}
	return count > 0, nil
}

func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.IsActive = true
	if err := conn(ctx, r.db).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *GORMReviewRepository) Deactivate(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Model(&models.Review{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMReviewRepository) AverageGrade(ctx context.Context, productID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := conn(ctx, r.db).Model(&models.Review{}).
		Select("AVG(grade)").
		Where("product_id = ? AND is_active = ?", productID, true).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average grades of product %d: %w", productID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
