package digest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

const forecastListCap = 5

var printer = message.NewPrinter(language.English)

// formatMoney rounds to kopecks and groups thousands with spaces.
func formatMoney(v float64) string {
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return strings.ReplaceAll(printer.Sprintf("%.2f", rounded), ",", " ") + " ₽"
}

func formatCount(n int) string {
	return strings.ReplaceAll(printer.Sprintf("%d", n), ",", " ")
}

// Format renders a Markdown digest. An empty finance report yields an explicit
// no-data line instead of zero figures.
func Format(in Input) string {
	fin := in.Finance
	var b strings.Builder

	kind := in.Kind
	if kind == "" {
		kind = domain.DigestDaily
	}
	fmt.Fprintf(&b, "*%s %s digest for %s*\n", fin.Marketplace.Label(), kind, fin.Period)

	if fin.Balance != nil {
		fmt.Fprintf(&b, "\nBalance: `%s`\n", formatMoney(*fin.Balance))
	}

	switch {
	case fin.Diagnostics.Status == domain.RunStatusSkipped:
		b.WriteString("\nNo data for this period: marketplace is disabled or not configured.\n")
	case fin.IsEmpty():
		b.WriteString("\nNo data for this period.\n")
	default:
		writeFinance(&b, in)
	}

	if in.Stock != nil && !in.Stock.IsEmpty() {
		writeStock(&b, *in.Stock)
	}
	if in.Forecast != nil {
		writeForecast(&b, *in.Forecast)
	}

	b.WriteString("\n*Recommendations*\n")
	for _, rec := range Recommend(in) {
		fmt.Fprintf(&b, "• %s\n", rec)
	}

	if fin.Diagnostics.Degraded() {
		fmt.Fprintf(&b, "\n_Data may be incomplete (%s)._\n", fin.Diagnostics.Status)
	}

	return b.String()
}

func writeFinance(b *strings.Builder, in Input) {
	fin := in.Finance

	fmt.Fprintf(b, "\nRevenue: `%s`\n", formatMoney(fin.GrossRevenue))
	fmt.Fprintf(b, "Deductions: `%s`\n", formatMoney(fin.TotalDeductions))
	fmt.Fprintf(b, "Net: `%s`\n", formatMoney(fin.NetRevenue))
	if !approxEqual(fin.NetRevenue, fin.DerivedNet) {
		fmt.Fprintf(b, "Net after all deductions: `%s`\n", formatMoney(fin.DerivedNet))
	}
	fmt.Fprintf(b, "Margin: `%.1f%%`\n", fin.MarginPct)
	fmt.Fprintf(b, "Orders: %s | Returns: %s", formatCount(fin.Orders), formatCount(fin.Returns))
	if fin.Orders > 0 {
		fmt.Fprintf(b, " (%.1f%%)", fin.ReturnRate())
	}
	b.WriteString("\n")

	if fin.TotalDeductions > 0 || fin.OtherAmount != 0 {
		b.WriteString("\n*Deductions*\n")
		for _, cat := range domain.DeductionCategories {
			if amount := fin.Deductions[cat]; amount != 0 {
				fmt.Fprintf(b, "%s: `%s`\n", cat.Label(), formatMoney(amount))
			}
		}
		if fin.OtherAmount != 0 {
			fmt.Fprintf(b, "Other operations: `%s`\n", formatMoney(fin.OtherAmount))
		}
	}

	if in.Kind == domain.DigestWeekly && len(fin.TopSKUs) > 0 {
		b.WriteString("\n*Top SKUs*\n")
		for i, agg := range fin.TopSKUs {
			fmt.Fprintf(b, "%d. %s: net `%s` | margin %.1f%% | orders %d\n",
				i+1, agg.SKU, formatMoney(agg.Net), agg.MarginPct, agg.Orders)
		}
	}
}

func writeStock(b *strings.Builder, stock domain.StockReport) {
	b.WriteString("\n*Stock*\n")
	fmt.Fprintf(b, "SKUs: %s | Units: %s\n", formatCount(len(stock.SKUs)), formatCount(stock.TotalUnits))
	fmt.Fprintf(b, "Out of stock: %d | Low stock: %d | Stale: %d\n",
		len(stock.ZeroStock), len(stock.LowStock), len(stock.Stale))
}

func writeForecast(b *strings.Builder, result domain.ForecastResult) {
	var urgent []domain.ForecastEntry
	for _, e := range result.Entries {
		if e.Urgency != domain.UrgencyOK {
			urgent = append(urgent, e)
		}
	}
	if len(urgent) == 0 {
		return
	}

	b.WriteString("\n*Forecast*\n")
	for i, e := range urgent {
		if i == forecastListCap {
			fmt.Fprintf(b, "...and %d more\n", len(urgent)-forecastListCap)
			break
		}
		fmt.Fprintf(b, "%s: %.1f days left, %d in stock (%s)\n", e.SKU, e.DaysLeft, e.Stock, e.Urgency)
	}
}

func approxEqual(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
