package models

import "github.com/shopspring/decimal"

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	UserID    uint    `json:"-" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint    `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
}

// Cart is the full content of a user's cart with its totals.
type Cart struct {
	UserID        uint            `json:"user_id"`
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}
