// Package export renders report rows as CSV, XLSX, printable HTML and PDF.
package export

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/report"
)

// Line is the presentation shape shared by every report view.
type Line struct {
	Label    string
	Sales    decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// Table is a titled list of lines with the header of its label column.
type Table struct {
	Title       string
	LabelHeader string
	Period      string
	Lines       []Line
	Totals      report.Summary
}

// CategoryTable presents the category rollup.
func CategoryTable(rows []report.CategoryRow) Table {
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{Label: r.CategoryName, Sales: r.Sales, Expenses: r.Expenses, Profit: r.Profit})
	}
	return Table{Title: "Kategorienbericht", LabelHeader: "Kategorie", Lines: lines, Totals: report.Summarize(rows)}
}

// ProductTable presents the product detail of one category.
func ProductTable(categoryName string, rows []report.ProductRow) Table {
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{Label: r.ProductName, Sales: r.Sales, Expenses: r.Expenses, Profit: r.Profit})
	}
	return Table{Title: "Bericht der Kategorie " + categoryName, LabelHeader: "Produkt", Lines: lines, Totals: report.Summarize(rows)}
}

// DayTable presents the time series.
func DayTable(period string, rows []report.DayRow) Table {
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{Label: r.Date, Sales: r.Sales, Expenses: r.Expenses, Profit: r.Profit})
	}
	return Table{Title: "Tagesbericht", LabelHeader: "Datum", Period: period, Lines: lines, Totals: report.Summarize(rows)}
}
