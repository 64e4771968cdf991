// Package finance turns classified ledger records into a PeriodReport.
package finance

import (
	"math"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

// Classifier maps an operation label to its category.
type Classifier interface {
	Classify(label string) domain.OperationCategory
}

// Policy describes how a source reports seller payouts.
type Policy struct {
	// NetFromPaid takes net revenue from the paid-amount field when present,
	// otherwise net is gross minus the record's own fees.
	NetFromPaid bool
	// DerivesCommission estimates commission as gross - paid - logistics, floored at 0.
	DerivesCommission bool
}

// Aggregator accumulates one period of ledger records. Not safe for concurrent use.
type Aggregator struct {
	classifier Classifier
	policy     Policy
	thresholds domain.Thresholds

	gross, net, other float64
	orders, returns   int
	deductions        map[domain.OperationCategory]float64
	byDay             map[string]float64

	skus  map[string]*domain.SkuAggregate
	order []string
	seen  map[string]struct{}
	dups  int
}

func NewAggregator(classifier Classifier, policy Policy, thresholds domain.Thresholds) *Aggregator {
	return &Aggregator{
		classifier: classifier,
		policy:     policy,
		thresholds: thresholds,
		deductions: newDeductionMap(),
		byDay:      make(map[string]float64),
		skus:       make(map[string]*domain.SkuAggregate),
		seen:       make(map[string]struct{}),
	}
}

func newDeductionMap() map[domain.OperationCategory]float64 {
	m := make(map[domain.OperationCategory]float64, len(domain.DeductionCategories))
	for _, cat := range domain.DeductionCategories {
		m[cat] = 0
	}
	return m
}

// Add folds one record in. Records with an already-seen Key are dropped.
func (a *Aggregator) Add(rec domain.RawRecord) {
	if rec.Key != "" {
		if _, dup := a.seen[rec.Key]; dup {
			a.dups++
			return
		}
		a.seen[rec.Key] = struct{}{}
	}

	var sku *domain.SkuAggregate
	if rec.SKU != "" {
		sku = a.sku(rec.SKU)
	}

	cat := rec.Category
	if cat == "" {
		cat = a.classifier.Classify(rec.Operation)
	}
	switch cat {
	case domain.CategorySale:
		net := a.recordNet(rec)
		a.gross += rec.Gross
		a.net += net
		if !rec.Continuation {
			a.orders++
		}
		a.addDay(rec, rec.Gross)
		if sku != nil {
			sku.Gross += rec.Gross
			sku.Net += net
			sku.Orders++
		}
		if a.policy.DerivesCommission && rec.HasNetPaid {
			commission := math.Max(0, rec.Gross-rec.NetPaid-rec.Fees[domain.CategoryLogistics])
			a.deduct(sku, domain.CategoryCommission, commission)
		}
	case domain.CategoryReturn:
		net := a.returnNet(rec)
		a.gross -= rec.Gross
		a.net -= net
		if !rec.Continuation {
			a.returns++
		}
		a.addDay(rec, -rec.Gross)
		if sku != nil {
			sku.Gross -= rec.Gross
			sku.Net -= net
			sku.Returns++
		}
	case domain.CategoryOther:
		a.other += rec.Amount
	default:
		a.deduct(sku, cat, math.Abs(rec.Amount))
	}

	for _, feeCat := range domain.DeductionCategories {
		if fee := rec.Fees[feeCat]; fee != 0 {
			a.deduct(sku, feeCat, math.Abs(fee))
		}
	}
}

func (a *Aggregator) recordNet(rec domain.RawRecord) float64 {
	if a.policy.NetFromPaid && rec.HasNetPaid {
		return rec.NetPaid
	}
	return rec.Gross - rec.Fees.Total()
}

// returnNet is the amount a return takes back from the seller. Without a paid
// amount, fees charged on the return add to the loss.
func (a *Aggregator) returnNet(rec domain.RawRecord) float64 {
	if a.policy.NetFromPaid && rec.HasNetPaid {
		return rec.NetPaid
	}
	return rec.Gross + rec.Fees.Total()
}

func (a *Aggregator) deduct(sku *domain.SkuAggregate, cat domain.OperationCategory, amount float64) {
	if amount == 0 {
		return
	}
	a.deductions[cat] += amount
	if sku != nil {
		sku.Deductions[cat] += amount
	}
}

func (a *Aggregator) addDay(rec domain.RawRecord, amount float64) {
	if rec.Timestamp.IsZero() {
		return
	}
	a.byDay[rec.Timestamp.UTC().Format(domain.DateLayout)] += amount
}

func (a *Aggregator) sku(id string) *domain.SkuAggregate {
	if agg, ok := a.skus[id]; ok {
		return agg
	}
	agg := &domain.SkuAggregate{SKU: id, Deductions: make(map[domain.OperationCategory]float64)}
	a.skus[id] = agg
	a.order = append(a.order, id)
	return agg
}

// Duplicates is the number of records dropped as re-deliveries.
func (a *Aggregator) Duplicates() int {
	return a.dups
}

// Report finalizes margins and rankings. The aggregator can keep accepting records afterwards.
func (a *Aggregator) Report() domain.PeriodReport {
	report := domain.PeriodReport{
		GrossRevenue:  a.gross,
		NetRevenue:    a.net,
		Deductions:    newDeductionMap(),
		OtherAmount:   a.other,
		Orders:        a.orders,
		Returns:       a.returns,
		SKUs:          make([]domain.SkuAggregate, 0, len(a.order)),
		LossSKUs:      []string{},
		LowMarginSKUs: []string{},
		RevenueByDay:  make(map[string]float64, len(a.byDay)),
	}

	for _, cat := range domain.DeductionCategories {
		report.Deductions[cat] = a.deductions[cat]
		report.TotalDeductions += a.deductions[cat]
	}
	report.DerivedNet = report.GrossRevenue - report.TotalDeductions
	report.MarginPct = MarginPct(report.NetRevenue, report.GrossRevenue)

	for day, amount := range a.byDay {
		report.RevenueByDay[day] = amount
	}

	for _, id := range a.order {
		agg := *a.skus[id]
		agg.Deductions = copyDeductions(agg.Deductions)
		agg.MarginPct = MarginPct(agg.Net, agg.Gross)
		agg.IsLoss, agg.IsLowMargin = Flags(agg.MarginPct, agg.Gross, a.thresholds)

		switch {
		case agg.IsLoss:
			report.LossSKUs = append(report.LossSKUs, id)
		case agg.IsLowMargin:
			report.LowMarginSKUs = append(report.LowMarginSKUs, id)
		}
		report.SKUs = append(report.SKUs, agg)
	}

	report.TopSKUs = TopByNet(report.SKUs, a.thresholds.TopN)
	return report
}

func copyDeductions(src map[domain.OperationCategory]float64) map[domain.OperationCategory]float64 {
	dst := make(map[domain.OperationCategory]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Aggregate runs a fresh Aggregator over records.
func Aggregate(records []domain.RawRecord, classifier Classifier, policy Policy, thresholds domain.Thresholds) domain.PeriodReport {
	agg := NewAggregator(classifier, policy, thresholds)
	for _, rec := range records {
		agg.Add(rec)
	}
	report := agg.Report()
	report.Diagnostics.Duplicates = agg.Duplicates()
	return report
}
