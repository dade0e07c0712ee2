// Package ledger records sales and expenses. Both share one shape: a product, a quantity
// and a total price snapshotted when the record is created.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects the ledger table.
type Kind string

const (
	KindSale    Kind = "sale"
	KindExpense Kind = "expense"
)

func (k Kind) table() string {
	if k == KindExpense {
		return "expenses"
	}
	return "sales"
}

// ProductRef is the product resolved at read time. Nil when the product was deleted.
type ProductRef struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	CostPrice  *decimal.Decimal `json:"costPrice,omitempty"`
	CategoryID string           `json:"categoryId,omitempty"`
}

// CategoryRef is the category resolved at read time. Nil when none or deleted.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry is a sale or expense row.
type Entry struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	ProductID    string          `json:"productId"`
	Product      *ProductRef     `json:"product"`
	CategoryID   *string         `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Category     *CategoryRef    `json:"category"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Date         *time.Time      `json:"date"`
}

// CreateInput is the body of POST /sales and POST /expenses.
type CreateInput struct {
	ProductID  string `json:"productId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	CategoryID string `json:"categoryId"`
}
