package report

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/ledger"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// CategoryLister lists every category.
type CategoryLister interface {
	List(ctx context.Context) ([]categories.Category, error)
}

// ProductLister lists every product with its resolved category.
type ProductLister interface {
	List(ctx context.Context) ([]products.Product, error)
}

// EntryLister lists sale or expense entries inside a period.
type EntryLister interface {
	List(ctx context.Context, period shared.DateRange) ([]ledger.Entry, error)
}

// StoreSource adapts the entity repositories to Source.
type StoreSource struct {
	categories CategoryLister
	products   ProductLister
	sales      EntryLister
	expenses   EntryLister
}

func NewStoreSource(categories CategoryLister, products ProductLister, sales, expenses EntryLister) *StoreSource {
	return &StoreSource{categories: categories, products: products, sales: sales, expenses: expenses}
}

func (s *StoreSource) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, Category{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (s *StoreSource) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(rows))
	for _, p := range rows {
		item := Product{ID: p.ID, Name: p.Name, CostPrice: p.CostPrice}
		if p.Category != nil {
			item.CategoryID = p.Category.ID
			item.CategoryName = p.Category.Name
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *StoreSource) Sales(ctx context.Context, period shared.DateRange) ([]Record, error) {
	return records(ctx, s.sales, period)
}

func (s *StoreSource) Expenses(ctx context.Context, period shared.DateRange) ([]Record, error) {
	return records(ctx, s.expenses, period)
}

func records(ctx context.Context, src EntryLister, period shared.DateRange) ([]Record, error) {
	entries, err := src.List(ctx, period)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, Record{
			ID:         e.ID,
			ProductID:  e.ProductID,
			Quantity:   e.Quantity,
			TotalPrice: e.TotalPrice,
			Date:       e.Date,
		})
	}
	return out, nil
}
