package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Paging defaults and limits for property search.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PropertyFilter selects a page of properties. Empty strings and nil price
// bounds are not applied.
type PropertyFilter struct {
	Name     string
	Address  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip for the filter's page.
func (f PropertyFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Validate checks paging and price bounds.
func (f PropertyFilter) Validate() error {
	if f.Page < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return fmt.Errorf("pageSize must be between 1 and %d", MaxPageSize)
	}
	// Offset must stay representable.
	if f.Page > math.MaxInt/f.PageSize {
		return fmt.Errorf("page is out of range")
	}
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return fmt.Errorf("minPrice cannot be negative")
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return fmt.Errorf("maxPrice cannot be negative")
	}
	return nil
}
