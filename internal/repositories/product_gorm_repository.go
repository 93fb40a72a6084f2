package repositories

import (
	"context"
	"errors"
	"fmt"

	"market/internal/models"
	"market/internal/search"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DecrementStock when fewer units are
// available than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db      *gorm.DB
	builder *search.Builder
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// The search ranker is chosen from the database dialect.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db:      db,
		builder: search.NewBuilder(search.RankerFor(db.Dialector.Name())),
	}
}

// Search returns one page of active products matching params together with
// the total number of matches. params must be normalized.
func (r *GORMProductRepository) Search(ctx context.Context, params search.Params) ([]models.Product, int64, error) {
	var total int64
	countQuery := r.builder.Filter(conn(ctx, r.db).Model(&models.Product{}), params)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := make([]models.Product, 0, params.PageSize)
	pageQuery := r.builder.Page(r.builder.Filter(conn(ctx, r.db).Model(&models.Product{}), params), params)
	if err := pageQuery.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

func (r *GORMProductRepository) ListActiveByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var products []models.Product
	err := conn(ctx, r.db).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products of category %d: %w", categoryID, err)
	}
	return products, nil
}

// GetByID retrieves a product regardless of its status.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, r.db).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetActiveByID retrieves an active product.
func (r *GORMProductRepository) GetActiveByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, r.db).First(&product, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.IsActive = true
	if err := conn(ctx, r.db).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the editable fields of product. Ownership, status and rating
// are never changed here.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := conn(ctx, r.db).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "image_url", "stock", "category_id").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMProductRepository) Deactivate(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMProductRepository) UpdateRating(ctx context.Context, id uint, rating float64) error {
	res := conn(ctx, r.db).Model(&models.Product{}).Where("id = ?", id).Update("rating", rating)
	if res.Error != nil {
		return fmt.Errorf("failed to update rating of product %d: %w", id, res.Error)
	}
	return nil
}

// DecrementStock takes quantity units off the product's stock. The guard in
// the WHERE clause lets the database arbitrate concurrent checkouts.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := conn(ctx, r.db).Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", id, true, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
