package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

type totals struct {
	sales    decimal.Decimal
	expenses decimal.Decimal
}

func (t totals) profit() decimal.Decimal {
	return t.sales.Sub(t.expenses)
}

// grouper groups sales and expenses by a key, keeping first-seen order.
type grouper[K comparable] struct {
	order []K
	sums  map[K]*totals
}

func newGrouper[K comparable](seed []K) *grouper[K] {
	l := &grouper[K]{sums: make(map[K]*totals, len(seed))}
	for _, k := range seed {
		l.bucket(k)
	}
	return l
}

func (l *grouper[K]) bucket(k K) *totals {
	t, ok := l.sums[k]
	if !ok {
		t = &totals{}
		l.sums[k] = t
		l.order = append(l.order, k)
	}
	return t
}

// fold adds every record for which key reports ok. Negative amounts count as zero.
func (l *grouper[K]) fold(sales, expenses []Record, key func(Record) (K, bool)) {
	for _, r := range sales {
		if k, ok := key(r); ok {
			t := l.bucket(k)
			t.sales = t.sales.Add(amount(r))
		}
	}
	for _, r := range expenses {
		if k, ok := key(r); ok {
			t := l.bucket(k)
			t.expenses = t.expenses.Add(amount(r))
		}
	}
}

func amount(r Record) decimal.Decimal {
	if r.TotalPrice.IsNegative() {
		return decimal.Zero
	}
	return r.TotalPrice
}

// byProfitDesc sorts rows by profit, highest first, keeping input order on ties.
func byProfitDesc[R any](rows []R, profit func(R) decimal.Decimal) {
	slices.SortStableFunc(rows, func(a, b R) int {
		return profit(b).Cmp(profit(a))
	})
}

// totaled is implemented by every row type that carries sales and expenses.
type totaled interface {
	salesExpenses() (decimal.Decimal, decimal.Decimal)
}

// Summarize totals the rows of the category, product or day views.
func Summarize[R totaled](rows []R) Summary {
	s := Summary{TotalSales: decimal.Zero, TotalExpenses: decimal.Zero}
	for _, row := range rows {
		sales, expenses := row.salesExpenses()
		s.TotalSales = s.TotalSales.Add(sales)
		s.TotalExpenses = s.TotalExpenses.Add(expenses)
	}
	s.TotalProfit = s.TotalSales.Sub(s.TotalExpenses)
	return s
}

func ascending[K cmp.Ordered](keys []K) []K {
	out := slices.Clone(keys)
	slices.Sort(out)
	return out
}
