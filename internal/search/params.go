package search

import (
	"strings"

	"market/internal/apperr"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params describes one product search request.
type Params struct {
	Query      string
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	SellerID   *uint
	Page       int
	PageSize   int
}

// Result is one page of a search together with the number of matching rows.
type Result[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Normalize fills in paging defaults and rejects parameter combinations that
// cannot describe a valid search.
func (p *Params) Normalize() error {
	p.Query = strings.TrimSpace(p.Query)
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		return apperr.BadRequest("page must be at least 1")
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return apperr.BadRequest("page_size must be between 1 and 100")
	}
	if p.MinPrice != nil && p.MinPrice.IsNegative() {
		return apperr.BadRequest("min_price cannot be negative")
	}
	if p.MaxPrice != nil && p.MaxPrice.IsNegative() {
		return apperr.BadRequest("max_price cannot be negative")
	}
	if p.MinPrice != nil && p.MaxPrice != nil && p.MinPrice.GreaterThan(*p.MaxPrice) {
		return apperr.BadRequest("min_price cannot be greater than max_price")
	}
	return nil
}

// Ranked reports whether the search carries a text query to rank by.
func (p Params) Ranked() bool {
	return p.Query != ""
}

// Offset is the number of rows skipped before the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}
