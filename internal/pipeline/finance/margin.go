package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

// MarginPct returns net/gross as a percentage rounded to one decimal, 0 when gross <= 0.
func MarginPct(net, gross float64) float64 {
	if gross <= 0 {
		return 0
	}
	return decimal.NewFromFloat(net).
		Div(decimal.NewFromFloat(gross)).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		InexactFloat64()
}

// Flags buckets a margin as loss or low margin. SKUs without positive gross are neutral.
func Flags(marginPct, gross float64, th domain.Thresholds) (isLoss, isLowMargin bool) {
	if gross <= 0 {
		return false, false
	}
	if marginPct <= th.LossMargin {
		return true, false
	}
	return false, marginPct <= th.LowMargin
}

// TopByNet returns the n SKUs with the highest net revenue; ties keep input order.
func TopByNet(skus []domain.SkuAggregate, n int) []domain.SkuAggregate {
	ranked := make([]domain.SkuAggregate, len(skus))
	copy(ranked, skus)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Net > ranked[j].Net
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
