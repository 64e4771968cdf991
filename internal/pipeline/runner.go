// Package pipeline wires ingestion, classification and analysis into per-marketplace runs.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/finance"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/forecast"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/stock"
)

// Runner executes pipeline runs. Each call builds fresh aggregates, so a Runner
// can serve concurrent runs.
type Runner struct {
	cfg Config
	now func() time.Time
}

func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, now: time.Now}
}

// WithClock replaces the clock used for staleness and stock cursors.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

func (r *Runner) Thresholds() domain.Thresholds {
	return r.cfg.Thresholds
}

// Finance collects and aggregates the ledger of a period. A nil source yields a
// skipped, empty report.
func (r *Runner) Finance(ctx context.Context, mp domain.Marketplace, src LedgerSource, period domain.Period) domain.PeriodReport {
	if src == nil {
		log.Info().Str("marketplace", string(mp)).Msg("finance: marketplace disabled or not configured, skipping")
		report := finance.Aggregate(nil, nil, finance.Policy{}, r.cfg.Thresholds)
		report.Marketplace = mp
		report.Period = period
		report.Diagnostics = domain.Skipped("marketplace disabled or credentials missing")
		return report
	}

	fetch := func(ctx context.Context, cursor ingest.Cursor) (ingest.Page[domain.RawRecord], error) {
		return src.FetchLedger(ctx, period, cursor)
	}
	res := ingest.Collect(ctx, string(mp)+":ledger", src.LedgerStart(period), fetch, r.cfg.Ingest)

	report := finance.Aggregate(res.Records, src.Classifier(), src.Policy(), r.cfg.Thresholds)
	report.Marketplace = mp
	report.Period = period
	dups := report.Diagnostics.Duplicates
	report.Diagnostics = res.Diagnostics
	report.Diagnostics.Duplicates = dups

	if balanceSrc, ok := src.(BalanceSource); ok {
		balance, err := balanceSrc.Balance(ctx)
		if err != nil {
			log.Warn().Err(err).Str("marketplace", string(mp)).Msg("finance: balance unavailable")
		} else {
			report.Balance = &balance
		}
	}

	if totalsSrc, ok := src.(TotalsSource); ok {
		totals, err := totalsSrc.Totals(ctx, period)
		if err != nil {
			log.Warn().Err(err).Str("marketplace", string(mp)).Msg("finance: source totals unavailable")
		} else {
			report.SourceTotals = &totals
			log.Debug().
				Str("marketplace", string(mp)).
				Float64("source_net", totals.Net()).
				Float64("derived_net", report.DerivedNet).
				Msg("finance: reconciliation")
		}
	}

	log.Info().
		Str("marketplace", string(mp)).
		Str("period", period.String()).
		Str("status", string(report.Diagnostics.Status)).
		Int("records", report.Diagnostics.Records).
		Float64("gross", report.GrossRevenue).
		Msg("finance: report built")

	return report
}

// Stock collects the current warehouse snapshot. A nil source yields a skipped, empty report.
func (r *Runner) Stock(ctx context.Context, mp domain.Marketplace, src StockSource) domain.StockReport {
	now := r.now()
	if src == nil {
		log.Info().Str("marketplace", string(mp)).Msg("stock: marketplace disabled or not configured, skipping")
		report := stock.Analyze(nil, r.cfg.Thresholds, now)
		report.Marketplace = mp
		report.Diagnostics = domain.Skipped("marketplace disabled or credentials missing")
		return report
	}

	res := ingest.Collect(ctx, string(mp)+":stock", src.StockStart(now), src.FetchStock, r.cfg.Ingest)

	report := stock.Analyze(res.Records, r.cfg.Thresholds, now)
	report.Marketplace = mp
	dups := report.Diagnostics.Duplicates
	report.Diagnostics = res.Diagnostics
	report.Diagnostics.Duplicates = dups

	log.Info().
		Str("marketplace", string(mp)).
		Str("status", string(report.Diagnostics.Status)).
		Int("skus", len(report.SKUs)).
		Int("low_stock", len(report.LowStock)).
		Msg("stock: report built")

	return report
}

// Forecast estimates depletion from an existing finance and stock report.
func (r *Runner) Forecast(report domain.PeriodReport, stockReport domain.StockReport) domain.ForecastResult {
	return forecast.Build(report, stockReport, r.cfg.Thresholds)
}
