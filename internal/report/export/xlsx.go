package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// SheetName is the worksheet holding the statistics.
const SheetName = "CategoryStats"

var amountHeaders = []any{" Umsatz (€)", " Ausgaben (€)", " Gewinn (€)"}

// WriteXLSX writes the table as a single-sheet workbook with amounts rounded to cents.
// An empty table is rejected with shared.ErrNoData.
func WriteXLSX(w io.Writer, table Table) error {
	if len(table.Lines) == 0 {
		return shared.ErrNoData
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := append([]any{table.LabelHeader}, amountHeaders...)
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, line := range table.Lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{line.Label, rounded(line.Sales), rounded(line.Expenses), rounded(line.Profit)}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "D", 16); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}

// XLSXFilename names the download: category-stats-<scope>-<YYYY-MM-DD>.xlsx.
func XLSXFilename(scope string, now time.Time) string {
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("category-stats-%s-%s.xlsx", scope, now.Format(shared.DateLayout))
}

func rounded(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
