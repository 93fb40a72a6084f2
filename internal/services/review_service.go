package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"market/internal/apperr"
	"market/internal/models"
	"market/internal/repositories"
)

var (
	ErrReviewNotFound  = apperr.NotFound("Review not found")
	ErrInvalidGrade    = apperr.BadRequest("Grade must be between 1 and 5")
	ErrAlreadyReviewed = apperr.BadRequest("You have already reviewed this product")
)

// ReviewInput carries a new review.
type ReviewInput struct {
	ProductID uint
	Grade     int
	Comment   string
}

// ReviewService handles business logic related to reviews. Every write
// recomputes the product rating in the same transaction.
type ReviewService struct {
	tx          repositories.Transactor
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
	ratings     *RatingAggregator
	now         func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(tx repositories.Transactor, reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository, ratings *RatingAggregator) *ReviewService {
	return &ReviewService{
		tx:          tx,
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		ratings:     ratings,
		now:         time.Now,
	}
}

// GetAllReviews returns every active review.
func (s *ReviewService) GetAllReviews(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// GetProductReviews returns the active reviews of an active product.
func (s *ReviewService) GetProductReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	if _, err := s.productRepo.GetActiveByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound.Wrap(err)
		}
		return nil, err
	}
	reviews, err := s.reviewRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// CreateReview records userID's review of an active product and refreshes
// the product rating.
func (s *ReviewService) CreateReview(ctx context.Context, userID uint, in ReviewInput) (*models.Review, error) {
	if in.Grade < 1 || in.Grade > 5 {
		return nil, ErrInvalidGrade
	}

	review := &models.Review{
		UserID:      userID,
		ProductID:   in.ProductID,
		Comment:     in.Comment,
		Grade:       in.Grade,
		CommentDate: s.now().UTC(),
	}
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.productRepo.GetActiveByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProductNotFound.Wrap(err)
			}
			return err
		}

		exists, err := s.reviewRepo.ExistsActive(ctx, userID, in.ProductID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyReviewed
		}

		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		_, err = s.ratings.Recalculate(ctx, in.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview soft-deletes an active review and refreshes the product rating.
func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	return s.tx.InTransaction(ctx, func(ctx context.Context) error {
		review, err := s.reviewRepo.GetActiveByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrReviewNotFound.Wrap(err)
			}
			return err
		}
		if err := s.reviewRepo.Deactivate(ctx, id); err != nil {
			return fmt.Errorf("failed to delete review %d: %w", id, err)
		}
		_, err = s.ratings.Recalculate(ctx, review.ProductID)
		return err
	})
}
