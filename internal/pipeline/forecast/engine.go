// Package forecast estimates days until stock depletion from sales velocity.
package forecast

import (
	"sort"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

// DefaultUnitPrice is used when no order data allows estimating a price.
const DefaultUnitPrice = 1000.0

// Build combines per-SKU revenue with stock on hand. SKUs without revenue, without a
// stock line, or with non-positive velocity get no entry. Entries are sorted by days left.
func Build(report domain.PeriodReport, stock domain.StockReport, th domain.Thresholds) domain.ForecastResult {
	window := report.Period.Days()
	if window <= 0 {
		window = th.ForecastWindowDays
	}
	if window <= 0 {
		window = 30
	}

	result := domain.ForecastResult{
		Marketplace: report.Marketplace,
		WindowDays:  window,
		Entries:     []domain.ForecastEntry{},
	}

	fallback := globalUnitPrice(report)
	for _, agg := range report.SKUs {
		if agg.Gross == 0 {
			continue
		}
		qty, ok := stock.Quantity(agg.SKU)
		if !ok {
			continue
		}

		price := fallback
		if agg.Orders > 0 && agg.Gross > 0 {
			price = agg.Gross / float64(agg.Orders)
		}

		avg := agg.Gross / price / float64(window)
		if avg <= 0 {
			continue
		}

		days := float64(qty) / avg
		result.Entries = append(result.Entries, domain.ForecastEntry{
			SKU:            agg.SKU,
			Stock:          qty,
			UnitPrice:      price,
			AvgUnitsPerDay: avg,
			DaysLeft:       days,
			Urgency:        Tier(days, th),
		})
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].DaysLeft < result.Entries[j].DaysLeft
	})
	return result
}

func globalUnitPrice(report domain.PeriodReport) float64 {
	if report.Orders > 0 && report.GrossRevenue > 0 {
		return report.GrossRevenue / float64(report.Orders)
	}
	return DefaultUnitPrice
}

// Tier maps days left to an urgency tier.
func Tier(daysLeft float64, th domain.Thresholds) domain.Urgency {
	switch {
	case daysLeft < th.CriticalDays:
		return domain.UrgencyCritical
	case daysLeft < th.WarningDays:
		return domain.UrgencyWarning
	}
	return domain.UrgencyOK
}
