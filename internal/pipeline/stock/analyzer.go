// Package stock aggregates warehouse stock lines into a StockReport.
package stock

import (
	"time"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

type level struct {
	quantity   int
	warehouses int
	last       time.Time
}

// Analyze sums quantities per SKU and flags low, zero and stale stock.
// Records sharing a Key are treated as re-deliveries; the later one wins.
// Staleness uses the most recent movement across all rows of a SKU.
func Analyze(records []domain.StockRecord, th domain.Thresholds, now time.Time) domain.StockReport {
	rows, dups := latestByKey(records)

	levels := make(map[string]*level)
	var order []string
	for _, rec := range rows {
		if rec.SKU == "" {
			continue
		}
		lvl, ok := levels[rec.SKU]
		if !ok {
			lvl = &level{}
			levels[rec.SKU] = lvl
			order = append(order, rec.SKU)
		}
		lvl.quantity += rec.Quantity
		lvl.warehouses++
		if rec.LastChange.After(lvl.last) {
			lvl.last = rec.LastChange
		}
	}

	report := domain.StockReport{
		SKUs:      make([]domain.StockLevel, 0, len(order)),
		LowStock:  []string{},
		ZeroStock: []string{},
		Stale:     []string{},
	}
	report.Diagnostics.Duplicates = dups

	for _, sku := range order {
		lvl := levels[sku]
		out := domain.StockLevel{
			SKU:        sku,
			Quantity:   lvl.quantity,
			Warehouses: lvl.warehouses,
		}
		if !lvl.last.IsZero() {
			out.LastMovement = lvl.last.UTC().Format(time.RFC3339)
			out.Stale = th.StaleAfter > 0 && now.Sub(lvl.last) > th.StaleAfter
		}

		if lvl.quantity < th.LowStockFloor {
			report.LowStock = append(report.LowStock, sku)
		}
		if lvl.quantity <= 0 {
			report.ZeroStock = append(report.ZeroStock, sku)
		}
		if out.Stale {
			report.Stale = append(report.Stale, sku)
		}

		report.TotalUnits += lvl.quantity
		report.SKUs = append(report.SKUs, out)
	}

	return report
}

func latestByKey(records []domain.StockRecord) ([]domain.StockRecord, int) {
	out := make([]domain.StockRecord, 0, len(records))
	index := make(map[string]int)
	dups := 0
	for _, rec := range records {
		if rec.Key == "" {
			out = append(out, rec)
			continue
		}
		if i, ok := index[rec.Key]; ok {
			out[i] = rec
			dups++
			continue
		}
		index[rec.Key] = len(out)
		out = append(out, rec)
	}
	return out, dups
}
