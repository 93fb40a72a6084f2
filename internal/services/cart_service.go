package services

import (
	"context"
	"errors"
	"fmt"

	"market/internal/apperr"
	"market/internal/models"
	"market/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrCartItemNotFound = apperr.NotFound("Item not found in cart")
	ErrInvalidQuantity  = apperr.BadRequest("Quantity must be at least 1")
	ErrOwnProduct       = apperr.BadRequest("You cannot buy your own product")
	ErrOutOfStock       = apperr.BadRequest("Product is out of stock")
)

// CartService handles business logic related to shopping carts.
type CartService struct {
	tx          repositories.Transactor
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(tx repositories.Transactor, cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns userID's cart with its totals.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}

	cart := &models.Cart{UserID: userID, Items: items, TotalPrice: decimal.Zero}
	for _, item := range items {
		cart.TotalQuantity += item.Quantity
		cart.TotalPrice = cart.TotalPrice.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the cart, adding to an
// existing line for the same product.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetActiveByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrProductNotFound.Wrap(err)
			}
			return err
		}
		if product.SellerID == userID {
			return ErrOwnProduct
		}
		if product.Stock < 1 {
			return ErrOutOfStock
		}

		item, err := s.cartRepo.Get(ctx, userID, productID)
		switch {
		case err == nil:
			return s.cartRepo.UpdateQuantity(ctx, item.ID, item.Quantity+quantity)
		case errors.Is(err, repositories.ErrNotFound):
			return s.cartRepo.Create(ctx, &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity})
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// UpdateItem sets the quantity of an existing cart line.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cartRepo.Get(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartItemNotFound.Wrap(err)
		}
		return nil, err
	}
	if err := s.cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart item %d: %w", item.ID, err)
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound.Wrap(err)
		}
		return err
	}
	return nil
}

// ClearCart removes every line of userID's cart.
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	return s.cartRepo.Clear(ctx, userID)
}
