package services

import (
	"context"
	"fmt"

	"market/internal/repositories"

	"github.com/shopspring/decimal"
)

// RatingAggregator keeps a product's rating equal to the mean grade of its
// active reviews.
type RatingAggregator struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewRatingAggregator creates a new RatingAggregator.
func NewRatingAggregator(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *RatingAggregator {
	return &RatingAggregator{reviewRepo: reviewRepo, productRepo: productRepo}
}

// Recalculate recomputes and stores the rating of productID. It joins the
// transaction carried by ctx, if any.
func (a *RatingAggregator) Recalculate(ctx context.Context, productID uint) (float64, error) {
	avg, err := a.reviewRepo.AverageGrade(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to average grades of product %d: %w", productID, err)
	}

	rating := RoundRating(avg)
	if err := a.productRepo.UpdateRating(ctx, productID, rating); err != nil {
		return 0, fmt.Errorf("failed to update rating of product %d: %w", productID, err)
	}
	return rating, nil
}

// RoundRating rounds a mean grade to two decimals, half away from zero.
// A nil mean (no reviews) is 0.
func RoundRating(avg *float64) float64 {
	if avg == nil {
		return 0
	}
	return decimal.NewFromFloat(*avg).Round(2).InexactFloat64()
}
