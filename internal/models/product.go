package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
//
// On PostgreSQL the products table also carries a generated "tsv" column
// used by full-text search; it is created by the database migration and is
// not mapped here.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:varchar(500)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(200)"`
	Stock       int             `json:"stock" gorm:"not null"`
	IsActive    bool            `json:"is_active" gorm:"not null;default:true"`
	SellerID    uint            `json:"seller_id" gorm:"index;not null"`
	CategoryID  uint            `json:"category_id" gorm:"index;not null"`
	Rating      float64         `json:"rating" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
