package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRef is the resolved category of a product. Nil means none or deleted.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a sellable item. Price is the unit sale price; CostPrice is optional.
type Product struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	CostPrice  *decimal.Decimal `json:"costPrice,omitempty"`
	Images     []string         `json:"images"`
	CategoryID *string          `json:"categoryId"`
	Category   *CategoryRef     `json:"category"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// ResolvedCategoryID returns the id of the resolved category or "" when uncategorized.
func (p Product) ResolvedCategoryID() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.ID
}
