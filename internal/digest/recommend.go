// Package digest renders reports into chat digests, recommendations and spreadsheets.
package digest

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

const (
	RevenueFloor   = 10000.0
	LowOrderValue  = 2000.0
	HighOrderValue = 5000.0
	HighReturnRate = 15.0

	stockListCap = 5
	lossListCap  = 3
	topListCap   = 5
)

// Input is everything a digest is built from. Stock and Forecast are optional.
type Input struct {
	Kind       domain.DigestKind
	Finance    domain.PeriodReport
	Stock      *domain.StockReport
	Forecast   *domain.ForecastResult
	Thresholds domain.Thresholds
}

// Recommend evaluates every trigger independently and returns the ones that fired,
// or a single all-clear message. Best sellers are named last and do not count as a trigger.
func Recommend(in Input) []string {
	var recs []string
	fin := in.Finance
	th := in.Thresholds

	if fin.Orders == 0 {
		recs = append(recs, "No sales in this period. Check listing visibility and product availability.")
	} else {
		if fin.GrossRevenue < RevenueFloor {
			recs = append(recs, "Revenue is low. Consider joining marketplace promotions or lowering prices.")
		}
		aov := fin.AverageOrderValue()
		switch {
		case aov < LowOrderValue:
			recs = append(recs, fmt.Sprintf("Average order value is %s. Try cross-selling or product bundles.", formatMoney(aov)))
		case aov > HighOrderValue:
			recs = append(recs, fmt.Sprintf("Average order value is %s. Push promotion of premium items.", formatMoney(aov)))
		}
	}

	if in.Stock != nil {
		if len(in.Stock.ZeroStock) > 0 {
			recs = append(recs, fmt.Sprintf("Out of stock: %d SKU (%s). Replenish urgently.",
				len(in.Stock.ZeroStock), capList(in.Stock.ZeroStock, stockListCap)))
		}
		if low := lowNotZero(*in.Stock); len(low) > 0 {
			recs = append(recs, fmt.Sprintf("Low stock: %d SKU below %d units (%s). Plan a supply.",
				len(low), th.LowStockFloor, capList(low, stockListCap)))
		}
		if len(in.Stock.Stale) > 0 {
			recs = append(recs, fmt.Sprintf("No stock movement for %d SKU (%s). Consider a promotion or markdown.",
				len(in.Stock.Stale), capList(in.Stock.Stale, stockListCap)))
		}
	}

	if fin.GrossRevenue > 0 && fin.MarginPct < th.LowMargin {
		recs = append(recs, fmt.Sprintf("Overall margin is %.1f%%, below %.0f%%. Review prices and fees.", fin.MarginPct, th.LowMargin))
	}
	if len(fin.LossSKUs) > 0 {
		recs = append(recs, fmt.Sprintf("Loss-making SKU (%d): %s. Reprice or delist them.",
			len(fin.LossSKUs), capList(fin.LossSKUs, lossListCap)))
	}
	if len(fin.LowMarginSKUs) > 0 {
		recs = append(recs, fmt.Sprintf("Low-margin SKU: %d. Check whether they are worth keeping.", len(fin.LowMarginSKUs)))
	}
	if penalties := fin.Deductions[domain.CategoryPenalty]; penalties > 0 {
		recs = append(recs, fmt.Sprintf("Penalties of %s were charged. Check the reasons in the seller account.", formatMoney(penalties)))
	}
	if fin.Orders > 0 && fin.ReturnRate() > HighReturnRate {
		recs = append(recs, fmt.Sprintf("Return rate is %.1f%% of orders. Review product descriptions and quality.", fin.ReturnRate()))
	}

	if in.Forecast != nil {
		if critical := in.Forecast.WithUrgency(domain.UrgencyCritical); len(critical) > 0 {
			ids := make([]string, 0, len(critical))
			for _, e := range critical {
				ids = append(ids, e.SKU)
			}
			recs = append(recs, fmt.Sprintf("Stock runs out within %.0f days for %d SKU (%s). Ship a supply now.",
				th.CriticalDays, len(ids), capList(ids, stockListCap)))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "All metrics are normal. Keep monitoring.")
	}
	if top := profitableTop(fin.TopSKUs); len(top) > 0 {
		recs = append(recs, fmt.Sprintf("Top SKU: %s. Boost their advertising and watch their stock.", capList(top, topListCap)))
	}
	return recs
}

func profitableTop(skus []domain.SkuAggregate) []string {
	var ids []string
	for _, agg := range skus {
		if agg.Net > 0 {
			ids = append(ids, agg.SKU)
		}
	}
	return ids
}

func lowNotZero(stock domain.StockReport) []string {
	zero := make(map[string]struct{}, len(stock.ZeroStock))
	for _, sku := range stock.ZeroStock {
		zero[sku] = struct{}{}
	}
	var out []string
	for _, sku := range stock.LowStock {
		if _, ok := zero[sku]; !ok {
			out = append(out, sku)
		}
	}
	return out
}

// capList joins the first n ids and appends the number left out.
func capList(ids []string, n int) string {
	if len(ids) <= n {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(ids[:n], ", "), len(ids)-n)
}
