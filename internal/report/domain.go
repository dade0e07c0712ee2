// Package report aggregates sales and expenses into category, product, day and per-record
// views. The aggregation functions are pure; Service adds loading and caching around them.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UncategorizedID keys the bucket for products without a resolvable category.
	UncategorizedID = "uncategorized"
	// UncategorizedName labels that bucket.
	UncategorizedName = "Ohne"
	// UnknownProductName labels records whose product no longer exists.
	UnknownProductName = "unknown product"
)

// Category is reference data for the rollup.
type Category struct {
	ID   string
	Name string
}

// Product is reference data. CategoryID is empty when the product has no resolvable category.
type Product struct {
	ID           string
	Name         string
	CategoryID   string
	CategoryName string
	CostPrice    *decimal.Decimal
}

// Record is one sale or expense as seen by the aggregation.
type Record struct {
	ID         string
	ProductID  string
	Quantity   int
	TotalPrice decimal.Decimal
	Date       *time.Time
}

// Dataset is everything one report build reads from the store.
type Dataset struct {
	Categories []Category
	Products   []Product
	Sales      []Record
	Expenses   []Record
}

// CategoryRow is one line of the category rollup.
type CategoryRow struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Sales        decimal.Decimal `json:"sales"`
	Expenses     decimal.Decimal `json:"expenses"`
	Profit       decimal.Decimal `json:"profit"`
}

// ProductRow is one line of the product detail within a category.
type ProductRow struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Sales       decimal.Decimal `json:"sales"`
	Expenses    decimal.Decimal `json:"expenses"`
	Profit      decimal.Decimal `json:"profit"`
}

// DayRow is one calendar day of the time series.
type DayRow struct {
	Date     string          `json:"date"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

func (r CategoryRow) salesExpenses() (decimal.Decimal, decimal.Decimal) { return r.Sales, r.Expenses }
func (r ProductRow) salesExpenses() (decimal.Decimal, decimal.Decimal) { return r.Sales, r.Expenses }
func (r DayRow) salesExpenses() (decimal.Decimal, decimal.Decimal) { return r.Sales, r.Expenses }

// LineRow is one sale with its margin over the product cost price.
type LineRow struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Sales       decimal.Decimal `json:"sales"`
	Profit      decimal.Decimal `json:"profit"`
}

// Summary totals the rows of one view.
type Summary struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
}
