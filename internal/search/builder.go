package search

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Builder composes the product search query: filters, text match, ranking
// and pagination.
type Builder struct {
	ranker Ranker
}

func NewBuilder(ranker Ranker) *Builder {
	return &Builder{ranker: ranker}
}

// Filter restricts tx to active products matching every filter in p and, for
// ranked searches, the text query. The result is suitable for counting.
func (b *Builder) Filter(tx *gorm.DB, p Params) *gorm.DB {
	tx = tx.Where("products.is_active = ?", true)

	if p.CategoryID != nil {
		tx = tx.Where("products.category_id = ?", *p.CategoryID)
	}
	if p.MinPrice != nil {
		tx = tx.Where("products.price >= ?", *p.MinPrice)
	}
	if p.MaxPrice != nil {
		tx = tx.Where("products.price <= ?", *p.MaxPrice)
	}
	if p.InStock != nil {
		if *p.InStock {
			tx = tx.Where("products.stock > ?", 0)
		} else {
			tx = tx.Where("products.stock = ?", 0)
		}
	}
	if p.SellerID != nil {
		tx = tx.Where("products.seller_id = ?", *p.SellerID)
	}
	if p.Ranked() {
		sql, args := b.ranker.Match(p.Query)
		tx = tx.Where(sql, args...)
	}
	return tx
}

// Page orders an already filtered query and cuts out the requested page.
// Ranked searches order by descending score; ties, and unranked listings,
// fall back to ascending id so repeated calls return identical pages.
func (b *Builder) Page(tx *gorm.DB, p Params) *gorm.DB {
	if p.Ranked() {
		sql, args := b.ranker.Score(p.Query)
		tx = tx.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                sql + " DESC, products.id ASC",
			Vars:               args,
			WithoutParentheses: true,
		}})
	} else {
		tx = tx.Order("products.id ASC")
	}
	return tx.Offset(p.Offset()).Limit(p.PageSize)
}
