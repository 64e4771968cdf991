package digest

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

const (
	summarySheet  = "Summary"
	skuSheet      = "SKUs"
	stockSheet    = "Stock"
	forecastSheet = "Forecast"
)

// ExportXLSX writes the digest inputs as a workbook with one sheet per section.
func ExportXLSX(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	fin := in.Finance
	summary := [][]any{
		{"Marketplace", fin.Marketplace.Label()},
		{"Period", fin.Period.String()},
		{"Status", string(fin.Diagnostics.Status)},
		{"Gross revenue", round2(fin.GrossRevenue)},
		{"Net revenue", round2(fin.NetRevenue)},
		{"Net after deductions", round2(fin.DerivedNet)},
		{"Total deductions", round2(fin.TotalDeductions)},
		{"Other operations", round2(fin.OtherAmount)},
		{"Margin %", fin.MarginPct},
		{"Orders", fin.Orders},
		{"Returns", fin.Returns},
	}
	for _, cat := range domain.DeductionCategories {
		summary = append(summary, []any{cat.Label(), round2(fin.Deductions[cat])})
	}
	if fin.SourceTotals != nil {
		summary = append(summary, []any{"Marketplace totals net", round2(fin.SourceTotals.Net())})
	}
	if err := writeRows(f, summarySheet, nil, summary); err != nil {
		return nil, err
	}

	skuRows := make([][]any, 0, len(fin.SKUs))
	for _, agg := range fin.SKUs {
		skuRows = append(skuRows, []any{
			agg.SKU, round2(agg.Gross), round2(agg.Net), round2(agg.TotalDeductions()),
			agg.MarginPct, agg.Orders, agg.Returns, agg.IsLoss, agg.IsLowMargin,
		})
	}
	if err := writeRows(f, skuSheet,
		[]any{"SKU", "Gross", "Net", "Deductions", "Margin %", "Orders", "Returns", "Loss", "Low margin"},
		skuRows); err != nil {
		return nil, err
	}

	if in.Stock != nil {
		rows := make([][]any, 0, len(in.Stock.SKUs))
		for _, lvl := range in.Stock.SKUs {
			rows = append(rows, []any{lvl.SKU, lvl.Quantity, lvl.Warehouses, lvl.LastMovement, lvl.Stale})
		}
		if err := writeRows(f, stockSheet,
			[]any{"SKU", "Quantity", "Warehouses", "Last movement", "Stale"}, rows); err != nil {
			return nil, err
		}
	}

	if in.Forecast != nil {
		rows := make([][]any, 0, len(in.Forecast.Entries))
		for _, e := range in.Forecast.Entries {
			rows = append(rows, []any{e.SKU, e.Stock, round2(e.AvgUnitsPerDay), round2(e.DaysLeft), string(e.Urgency)})
		}
		if err := writeRows(f, forecastSheet,
			[]any{"SKU", "Stock", "Units per day", "Days left", "Urgency"}, rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if sheet != summarySheet {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	rowIdx := 1
	if header != nil {
		if err := setRow(f, sheet, rowIdx, header); err != nil {
			return err
		}
		rowIdx++
	}
	for _, row := range rows {
		if err := setRow(f, sheet, rowIdx, row); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
