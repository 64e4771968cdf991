package domain

// SkuAggregate accumulates finance figures for one SKU.
type SkuAggregate struct {
	SKU         string                        `json:"sku"`
	Gross       float64                       `json:"gross"`
	Net         float64                       `json:"net"`
	Deductions  map[OperationCategory]float64 `json:"deductions,omitempty"`
	Orders      int                           `json:"orders"`
	Returns     int                           `json:"returns"`
	MarginPct   float64                       `json:"margin_pct"`
	IsLoss      bool                          `json:"is_loss"`
	IsLowMargin bool                          `json:"is_low_margin"`
}

// TotalDeductions sums the SKU's deductions in DeductionCategories order.
func (s SkuAggregate) TotalDeductions() float64 {
	var total float64
	for _, cat := range DeductionCategories {
		total += s.Deductions[cat]
	}
	return total
}

// PeriodReport is the finance aggregate of one marketplace over one period.
type PeriodReport struct {
	Marketplace Marketplace `json:"marketplace"`
	Period      Period      `json:"period"`

	GrossRevenue float64 `json:"gross_revenue"`
	// NetRevenue follows the source's own method (paid amounts or gross minus deductions).
	NetRevenue float64 `json:"net_revenue"`
	// DerivedNet is always GrossRevenue - TotalDeductions.
	DerivedNet      float64                       `json:"derived_net"`
	Deductions      map[OperationCategory]float64 `json:"deductions"`
	TotalDeductions float64                       `json:"total_deductions"`
	OtherAmount     float64                       `json:"other_amount"`
	MarginPct       float64                       `json:"margin_pct"`
	Orders          int                           `json:"orders"`
	Returns         int                           `json:"returns"`

	// SKUs are kept in first-seen order.
	SKUs          []SkuAggregate     `json:"skus"`
	TopSKUs       []SkuAggregate     `json:"top_skus"`
	LossSKUs      []string           `json:"loss_skus"`
	LowMarginSKUs []string           `json:"low_margin_skus"`
	RevenueByDay  map[string]float64 `json:"revenue_by_day,omitempty"`

	Balance *float64 `json:"balance,omitempty"`
	// SourceTotals are the marketplace's own period totals, when it reports them.
	SourceTotals *LedgerTotals `json:"source_totals,omitempty"`
	Diagnostics  Diagnostics   `json:"diagnostics"`
}

// LedgerTotals is a marketplace-computed summary of a period, used to
// reconcile the aggregated report.
type LedgerTotals struct {
	AccrualsForSale         float64 `json:"accruals_for_sale"`
	SaleCommission          float64 `json:"sale_commission"`
	ProcessingAndDelivery   float64 `json:"processing_and_delivery"`
	RefundsAndCancellations float64 `json:"refunds_and_cancellations"`
	ServicesAmount          float64 `json:"services_amount"`
	CompensationAmount      float64 `json:"compensation_amount"`
	MoneyTransfer           float64 `json:"money_transfer"`
	OthersAmount            float64 `json:"others_amount"`
}

// Net is the signed sum of all totals.
func (t LedgerTotals) Net() float64 {
	return t.AccrualsForSale + t.SaleCommission + t.ProcessingAndDelivery +
		t.RefundsAndCancellations + t.ServicesAmount + t.CompensationAmount +
		t.MoneyTransfer + t.OthersAmount
}

// IsEmpty reports whether the report carries no financial activity at all.
func (r PeriodReport) IsEmpty() bool {
	return len(r.SKUs) == 0 && r.Orders == 0 && r.Returns == 0 &&
		r.GrossRevenue == 0 && r.TotalDeductions == 0 && r.OtherAmount == 0
}

// SKU looks up an aggregate by identifier.
func (r PeriodReport) SKU(id string) (SkuAggregate, bool) {
	for _, agg := range r.SKUs {
		if agg.SKU == id {
			return agg, true
		}
	}
	return SkuAggregate{}, false
}

// AverageOrderValue is gross revenue per order, 0 without orders.
func (r PeriodReport) AverageOrderValue() float64 {
	if r.Orders == 0 {
		return 0
	}
	return r.GrossRevenue / float64(r.Orders)
}

// ReturnRate is returns as a percentage of orders, 0 without orders.
func (r PeriodReport) ReturnRate() float64 {
	if r.Orders == 0 {
		return 0
	}
	return float64(r.Returns) / float64(r.Orders) * 100
}

// StockLevel is the on-hand quantity of one SKU across warehouses.
type StockLevel struct {
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	Warehouses   int    `json:"warehouses"`
	LastMovement string `json:"last_movement,omitempty"`
	Stale        bool   `json:"stale"`
}

// StockReport is the inventory snapshot of one marketplace.
type StockReport struct {
	Marketplace Marketplace  `json:"marketplace"`
	SKUs        []StockLevel `json:"skus"`
	TotalUnits  int          `json:"total_units"`
	LowStock    []string     `json:"low_stock"`
	ZeroStock   []string     `json:"zero_stock"`
	Stale       []string     `json:"stale"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// Quantity returns the on-hand quantity for a SKU.
func (r StockReport) Quantity(sku string) (int, bool) {
	for _, lvl := range r.SKUs {
		if lvl.SKU == sku {
			return lvl.Quantity, true
		}
	}
	return 0, false
}

func (r StockReport) IsEmpty() bool {
	return len(r.SKUs) == 0
}

// Urgency is how soon a SKU is expected to run out.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyOK       Urgency = "ok"
)

// ForecastEntry estimates stock depletion for one SKU.
type ForecastEntry struct {
	SKU            string  `json:"sku"`
	Stock          int     `json:"stock"`
	UnitPrice      float64 `json:"unit_price"`
	AvgUnitsPerDay float64 `json:"avg_units_per_day"`
	DaysLeft       float64 `json:"days_left"`
	Urgency        Urgency `json:"urgency"`
}

// ForecastResult lists forecast entries, most urgent first.
type ForecastResult struct {
	Marketplace Marketplace     `json:"marketplace"`
	WindowDays  int             `json:"window_days"`
	Entries     []ForecastEntry `json:"entries"`
}

// WithUrgency returns entries of the given tier, preserving order.
func (r ForecastResult) WithUrgency(u Urgency) []ForecastEntry {
	var out []ForecastEntry
	for _, e := range r.Entries {
		if e.Urgency == u {
			out = append(out, e)
		}
	}
	return out
}
