package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/finance"
)

// LedgerSource is a marketplace finance feed.
type LedgerSource interface {
	Marketplace() domain.Marketplace

	// Classifier returns the operation table of the source
	Classifier() finance.Classifier

	// Policy tells the aggregator how the source reports payouts
	Policy() finance.Policy

	// LedgerStart is the cursor of the first ledger page for a period
	LedgerStart(period domain.Period) ingest.Cursor

	// FetchLedger fetches one ledger page
	FetchLedger(ctx context.Context, period domain.Period, cursor ingest.Cursor) (ingest.Page[domain.RawRecord], error)
}

// StockSource is a marketplace warehouse stock feed.
type StockSource interface {
	Marketplace() domain.Marketplace
	StockStart(now time.Time) ingest.Cursor
	FetchStock(ctx context.Context, cursor ingest.Cursor) (ingest.Page[domain.StockRecord], error)
}

// BalanceSource is implemented by sources that expose the seller's current balance.
type BalanceSource interface {
	Balance(ctx context.Context) (float64, error)
}

// TotalsSource is implemented by sources that report their own period totals.
type TotalsSource interface {
	Totals(ctx context.Context, period domain.Period) (domain.LedgerTotals, error)
}

// Config holds the settings shared by every run.
type Config struct {
	Thresholds domain.Thresholds
	Ingest     ingest.Options
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Thresholds: domain.DefaultThresholds(),
		Ingest:     ingest.DefaultOptions(),
	}
}
