package report

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// CategoryRollup groups every sale and expense by the category of its product. Known
// categories always appear; products that are missing or uncategorized fall into
// UncategorizedID so the grand totals always match the input.
func CategoryRollup(data Dataset) []CategoryRow {
	names := make(map[string]string, len(data.Categories)+1)
	seed := make([]string, 0, len(data.Categories))
	for _, c := range data.Categories {
		if _, dup := names[c.ID]; dup {
			continue
		}
		names[c.ID] = c.Name
		seed = append(seed, c.ID)
	}

	owner := make(map[string]string, len(data.Products))
	for _, p := range data.Products {
		if p.CategoryID == "" {
			continue
		}
		owner[p.ID] = p.CategoryID
		if _, ok := names[p.CategoryID]; !ok && p.CategoryName != "" {
			names[p.CategoryID] = p.CategoryName
		}
	}

	l := newGrouper(seed)
	l.fold(data.Sales, data.Expenses, func(r Record) (string, bool) {
		if id, ok := owner[r.ProductID]; ok {
			return id, true
		}
		return UncategorizedID, true
	})

	rows := make([]CategoryRow, 0, len(l.order))
	for _, id := range l.order {
		t := l.sums[id]
		name, ok := names[id]
		if !ok {
			name = UncategorizedName
		}
		rows = append(rows, CategoryRow{
			CategoryID:   id,
			CategoryName: name,
			Sales:        t.sales,
			Expenses:     t.expenses,
			Profit:       t.profit(),
		})
	}
	byProfitDesc(rows, func(r CategoryRow) decimal.Decimal { return r.Profit })
	return rows
}

// ProductDetail aggregates the products of one category. Records of other products are
// excluded. Selecting UncategorizedID lists products without a category.
func ProductDetail(categoryID string, data Dataset) []ProductRow {
	names := make(map[string]string)
	seed := make([]string, 0)
	for _, p := range data.Products {
		resolved := p.CategoryID
		if resolved == "" {
			resolved = UncategorizedID
		}
		if resolved != categoryID {
			continue
		}
		if _, dup := names[p.ID]; dup {
			continue
		}
		names[p.ID] = p.Name
		seed = append(seed, p.ID)
	}

	l := newGrouper(seed)
	l.fold(data.Sales, data.Expenses, func(r Record) (string, bool) {
		_, ok := names[r.ProductID]
		return r.ProductID, ok
	})

	rows := make([]ProductRow, 0, len(l.order))
	for _, id := range l.order {
		t := l.sums[id]
		rows = append(rows, ProductRow{
			ProductID:   id,
			ProductName: names[id],
			Sales:       t.sales,
			Expenses:    t.expenses,
			Profit:      t.profit(),
		})
	}
	byProfitDesc(rows, func(r ProductRow) decimal.Decimal { return r.Profit })
	return rows
}

// TimeSeries buckets records by calendar day in loc. Days without activity are absent and
// records without a date are skipped.
func TimeSeries(sales, expenses []Record, loc *time.Location) []DayRow {
	if loc == nil {
		loc = time.UTC
	}
	l := newGrouper[string](nil)
	l.fold(sales, expenses, func(r Record) (string, bool) {
		if r.Date == nil {
			return "", false
		}
		return r.Date.In(loc).Format(shared.DateLayout), true
	})

	rows := make([]DayRow, 0, len(l.order))
	for _, day := range ascending(l.order) {
		t := l.sums[day]
		rows = append(rows, DayRow{Date: day, Sales: t.sales, Expenses: t.expenses, Profit: t.profit()})
	}
	return rows
}

// SalesLines lists sales with profit = totalPrice - costPrice × quantity, oldest first.
// Missing products report as UnknownProductName with zero cost.
func SalesLines(products []Product, sales []Record, loc *time.Location) []LineRow {
	if loc == nil {
		loc = time.UTC
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	dated := make([]Record, 0, len(sales))
	for _, r := range sales {
		if r.Date != nil {
			dated = append(dated, r)
		}
	}
	slices.SortStableFunc(dated, func(a, b Record) int { return a.Date.Compare(*b.Date) })

	rows := make([]LineRow, 0, len(dated))
	for _, r := range dated {
		name := UnknownProductName
		cost := decimal.Zero
		if p, ok := byID[r.ProductID]; ok {
			name = p.Name
			cost = shared.MoneyOrZero(p.CostPrice)
		}
		sales := amount(r)
		rows = append(rows, LineRow{
			ID:          r.ID,
			Date:        r.Date.In(loc).Format(shared.DateLayout),
			ProductName: name,
			Quantity:    r.Quantity,
			Sales:       sales,
			Profit:      sales.Sub(cost.Mul(decimal.NewFromInt(int64(r.Quantity)))),
		})
	}
	return rows
}
