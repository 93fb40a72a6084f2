package models

// Category groups products. Categories form a tree through ParentID.
type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"type:varchar(50);not null"`
	ParentID *uint  `json:"parent_id" gorm:"index"`
	IsActive bool   `json:"is_active" gorm:"not null;default:true"`
}
