package services

import (
	"context"
	"errors"
	"fmt"

	"market/internal/apperr"
	"market/internal/models"
	"market/internal/repositories"
	"market/internal/search"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = apperr.NotFound("Product not found")
	ErrNotProductOwner = apperr.Forbidden("You can only modify your own products")
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
	CategoryID  uint
}

func (in ProductInput) validate() error {
	if !in.Price.IsPositive() {
		return apperr.BadRequest("Price must be greater than zero")
	}
	if in.Stock < 0 {
		return apperr.BadRequest("Stock cannot be negative")
	}
	return nil
}

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// SearchProducts returns one page of active products matching params.
func (s *ProductService) SearchProducts(ctx context.Context, params search.Params) (*search.Result[models.Product], error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}
	products, total, err := s.productRepo.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return &search.Result[models.Product]{
		Items:    products,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// GetProductsByCategory lists the active products of an active category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	if _, err := s.categoryRepo.GetActiveByID(ctx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound.Wrap(err)
		}
		return nil, err
	}
	products, err := s.productRepo.ListActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProductByID returns an active product whose category is also active.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.activeProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetActiveByID(ctx, product.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound.Wrap(fmt.Errorf("category %d is inactive", product.CategoryID))
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct lists a new product for sellerID.
func (s *ProductService) CreateProduct(ctx context.Context, sellerID uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		SellerID:    sellerID,
		CategoryID:  in.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces the writable fields of a product owned by sellerID.
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.ImageURL = in.ImageURL
	product.Stock = in.Stock
	product.CategoryID = in.CategoryID
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product owned by sellerID.
func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, id uint) error {
	if _, err := s.ownedProduct(ctx, sellerID, id); err != nil {
		return err
	}
	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (s *ProductService) activeProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound.Wrap(err)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) ownedProduct(ctx context.Context, sellerID, id uint) (*models.Product, error) {
	product, err := s.activeProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, ErrNotProductOwner
	}
	return product, nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID uint) error {
	if _, err := s.categoryRepo.GetActiveByID(ctx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.BadRequest("Category not found or inactive")
		}
		return err
	}
	return nil
}
