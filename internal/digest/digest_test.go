package digest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/sellerpulse/internal/classify"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/finance"
)

func healthyReport() domain.PeriodReport {
	return domain.PeriodReport{
		Marketplace:  domain.MarketplaceWildberries,
		Period:       domain.Yesterday(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)),
		GrossRevenue: 40000,
		NetRevenue:   30000,
		DerivedNet:   30000,
		MarginPct:    75,
		Orders:       10,
		Returns:      1,
		Deductions:   map[domain.OperationCategory]float64{domain.CategoryCommission: 10000},
		SKUs:         []domain.SkuAggregate{{SKU: "A", Gross: 40000, Net: 30000, Orders: 10, MarginPct: 75}},
	}
}

func input(fin domain.PeriodReport) Input {
	return Input{Kind: domain.DigestDaily, Finance: fin, Thresholds: domain.DefaultThresholds()}
}

func contains(recs []string, fragment string) bool {
	for _, r := range recs {
		if bytes.Contains([]byte(r), []byte(fragment)) {
			return true
		}
	}
	return false
}

func TestAllNormal(t *testing.T) {
	recs := Recommend(input(healthyReport()))
	assert.Equal(t, []string{"All metrics are normal. Keep monitoring."}, recs)
}

func TestTopSKUsAdvisory(t *testing.T) {
	fin := healthyReport()
	fin.SKUs = append(fin.SKUs, domain.SkuAggregate{SKU: "B", Gross: 100, Net: -20})
	fin.TopSKUs = fin.SKUs

	recs := Recommend(input(fin))
	assert.Equal(t, []string{
		"All metrics are normal. Keep monitoring.",
		"Top SKU: A. Boost their advertising and watch their stock.",
	}, recs)

	fin.TopSKUs = fin.SKUs[1:]
	assert.False(t, contains(Recommend(input(fin)), "Top SKU"))
}

func TestReturnRateTrigger(t *testing.T) {
	fin := healthyReport()
	fin.Returns = 2
	assert.True(t, contains(Recommend(input(fin)), "Return rate is 20.0%"))

	fin.Returns = 1
	assert.False(t, contains(Recommend(input(fin)), "Return rate"))
}

func TestNoSalesTrigger(t *testing.T) {
	fin := healthyReport()
	fin.Orders, fin.Returns, fin.GrossRevenue = 0, 0, 0
	recs := Recommend(input(fin))
	assert.True(t, contains(recs, "No sales"))
	assert.False(t, contains(recs, "Revenue is low"))
	assert.False(t, contains(recs, "Average order value"))
}

func TestRevenueAndOrderValueTriggers(t *testing.T) {
	fin := healthyReport()
	fin.GrossRevenue = 9000
	recs := Recommend(input(fin))
	assert.True(t, contains(recs, "Revenue is low"))
	assert.True(t, contains(recs, "cross-selling"))

	fin.GrossRevenue = 60000
	recs = Recommend(input(fin))
	assert.True(t, contains(recs, "premium"))
}

func TestStockTriggersAreCapped(t *testing.T) {
	stock := &domain.StockReport{
		ZeroStock: []string{"z1", "z2", "z3", "z4", "z5", "z6", "z7"},
		LowStock:  []string{"z1", "z2", "z3", "z4", "z5", "z6", "z7", "l1"},
		Stale:     []string{"s1"},
	}
	in := input(healthyReport())
	in.Stock = stock

	recs := Recommend(in)
	assert.True(t, contains(recs, "Out of stock: 7 SKU (z1, z2, z3, z4, z5 and 2 more)"))
	assert.True(t, contains(recs, "Low stock: 1 SKU below 5 units (l1)"))
	assert.True(t, contains(recs, "No stock movement for 1 SKU (s1)"))
}

func TestFinanceTriggers(t *testing.T) {
	fin := healthyReport()
	fin.MarginPct = 12
	fin.LossSKUs = []string{"a", "b", "c", "d"}
	fin.LowMarginSKUs = []string{"e"}
	fin.Deductions[domain.CategoryPenalty] = 1500

	recs := Recommend(input(fin))
	assert.True(t, contains(recs, "Overall margin is 12.0%"))
	assert.True(t, contains(recs, "Loss-making SKU (4): a, b, c and 1 more"))
	assert.True(t, contains(recs, "Low-margin SKU: 1"))
	assert.True(t, contains(recs, "Penalties of 1 500.00 ₽"))
}

func TestForecastTrigger(t *testing.T) {
	in := input(healthyReport())
	in.Forecast = &domain.ForecastResult{Entries: []domain.ForecastEntry{
		{SKU: "A", DaysLeft: 2, Urgency: domain.UrgencyCritical},
		{SKU: "B", DaysLeft: 10, Urgency: domain.UrgencyWarning},
	}}

	recs := Recommend(in)
	assert.True(t, contains(recs, "within 7 days for 1 SKU (A)"))
}

func TestEmptyPipelineFormatsNoData(t *testing.T) {
	report := finance.Aggregate(nil, classify.Wildberries, finance.Policy{NetFromPaid: true}, domain.DefaultThresholds())
	report.Marketplace = domain.MarketplaceWildberries
	report.Period = domain.Yesterday(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))

	text := Format(input(report))
	assert.Contains(t, text, "*Wildberries daily digest for 2026-10-16*")
	assert.Contains(t, text, "No data for this period.")
	assert.NotContains(t, text, "Revenue:")
}

func TestSkippedReportFormatsNoData(t *testing.T) {
	report := domain.PeriodReport{Marketplace: domain.MarketplaceOzon, Diagnostics: domain.Skipped("disabled")}
	text := Format(input(report))
	assert.Contains(t, text, "No data for this period: marketplace is disabled or not configured.")
}

func TestFormatFullDigest(t *testing.T) {
	fin := healthyReport()
	balance := 1234567.891
	fin.Balance = &balance
	fin.TopSKUs = fin.SKUs
	fin.Diagnostics = domain.Diagnostics{Status: domain.RunStatusPartial}

	in := input(fin)
	in.Kind = domain.DigestWeekly
	in.Stock = &domain.StockReport{SKUs: []domain.StockLevel{{SKU: "A", Quantity: 2}}, TotalUnits: 2, LowStock: []string{"A"}}
	in.Forecast = &domain.ForecastResult{Entries: []domain.ForecastEntry{{SKU: "A", Stock: 2, DaysLeft: 0.5, Urgency: domain.UrgencyCritical}}}

	text := Format(in)
	assert.Contains(t, text, "*Wildberries weekly digest for")
	assert.Contains(t, text, "Balance: `1 234 567.89 ₽`")
	assert.Contains(t, text, "Revenue: `40 000.00 ₽`")
	assert.Contains(t, text, "Commission: `10 000.00 ₽`")
	assert.Contains(t, text, "*Top SKUs*")
	assert.Contains(t, text, "1. A: net `30 000.00 ₽` | margin 75.0% | orders 10")
	assert.Contains(t, text, "*Stock*")
	assert.Contains(t, text, "A: 0.5 days left, 2 in stock (critical)")
	assert.Contains(t, text, "*Recommendations*")
	assert.Contains(t, text, "_Data may be incomplete (partial)._")
}

func TestDailyDigestHasNoTopSection(t *testing.T) {
	fin := healthyReport()
	fin.TopSKUs = fin.SKUs
	assert.NotContains(t, Format(input(fin)), "*Top SKUs*")
}

func TestExportXLSX(t *testing.T) {
	in := input(healthyReport())
	in.Stock = &domain.StockReport{SKUs: []domain.StockLevel{{SKU: "A", Quantity: 2, Warehouses: 1}}}
	in.Forecast = &domain.ForecastResult{Entries: []domain.ForecastEntry{{SKU: "A", Stock: 2, DaysLeft: 3, Urgency: domain.UrgencyCritical}}}

	data, err := ExportXLSX(in)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, skuSheet, stockSheet, forecastSheet}, f.GetSheetList())

	value, err := f.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "40000", value)

	sku, err := f.GetCellValue(skuSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A", sku)

	urgency, err := f.GetCellValue(forecastSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "critical", urgency)
}

func TestCapList(t *testing.T) {
	assert.Equal(t, "a, b", capList([]string{"a", "b"}, 3))
	assert.Equal(t, "a and 2 more", capList([]string{"a", "b", "c"}, 1))
}
