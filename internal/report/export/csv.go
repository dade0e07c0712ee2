package export

import (
	"encoding/csv"
	"io"

	"github.com/odyssey-erp/odyssey-admin/internal/report"
)

// WriteCategoryCSV emits the category rollup with its JSON field names as header.
func WriteCategoryCSV(w io.Writer, rows []report.CategoryRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"categoryId", "categoryName", "sales", "expenses", "profit"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{r.CategoryID, r.CategoryName, money(r.Sales), money(r.Expenses), money(r.Profit)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteProductCSV emits the product detail.
func WriteProductCSV(w io.Writer, rows []report.ProductRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"productId", "productName", "sales", "expenses", "profit"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{r.ProductID, r.ProductName, money(r.Sales), money(r.Expenses), money(r.Profit)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTimeSeriesCSV emits the daily series.
func WriteTimeSeriesCSV(w io.Writer, rows []report.DayRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "sales", "expenses", "profit"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{r.Date, money(r.Sales), money(r.Expenses), money(r.Profit)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
