package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"market/internal/apperr"
	"market/internal/cache"
	"market/internal/models"
	"market/internal/repositories"
)

const activeCategoriesKey = "categories:active"

var ErrCategoryNotFound = apperr.NotFound("Category not found")

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name     string
	ParentID *uint
}

// CategoryService handles business logic related to categories. The list of
// active categories is served from a cache that every write invalidates.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	cache        cache.Store
	ttl          time.Duration
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, store cache.Store, ttl time.Duration) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        store,
		ttl:          ttl,
	}
}

// GetAllCategories returns the active categories.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	if cached, err := s.cache.Get(ctx, activeCategoriesKey); err == nil {
		var categories []models.Category
		if err := json.Unmarshal(cached, &categories); err == nil {
			return categories, nil
		}
		log.Printf("Discarding undecodable cache entry %s", activeCategoriesKey)
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Category cache read failed: %v", err)
	}

	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, activeCategoriesKey, encoded, s.ttl); err != nil {
			log.Printf("Category cache write failed: %v", err)
		}
	}
	return categories, nil
}

// CreateCategory creates an active category. A parent, when given, must be active.
func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.checkParent(ctx, 0, in.ParentID); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, ParentID: in.ParentID}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidate(ctx)
	return category, nil
}

// UpdateCategory renames and re-parents an active category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.activeCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, id, in.ParentID); err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.ParentID = in.ParentID
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	s.invalidate(ctx)
	return category, nil
}

// DeleteCategory soft-deletes an active category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.activeCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) activeCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound.Wrap(err)
		}
		return nil, err
	}
	return category, nil
}

// checkParent validates the parent of category id (0 for a new category).
func (s *CategoryService) checkParent(ctx context.Context, id uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return apperr.BadRequest("Category cannot be its own parent")
	}
	if _, err := s.categoryRepo.GetActiveByID(ctx, *parentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.BadRequest("Parent category not found")
		}
		return err
	}
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, activeCategoriesKey); err != nil {
		log.Printf("Category cache invalidation failed: %v", err)
	}
}
