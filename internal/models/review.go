package models

import "time"

// Review is a buyer's grade and comment on a product.
type Review struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	ProductID   uint      `json:"product_id" gorm:"index;not null"`
	Comment     string    `json:"comment" gorm:"type:text"`
	CommentDate time.Time `json:"comment_date"`
	Grade       int       `json:"grade" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
}
