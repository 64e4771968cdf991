package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/cache"
	"github.com/andresuchdata/sellerpulse/internal/digest"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/pipeline"
)

var ErrUnknownMarketplace = errors.New("unknown marketplace")

// ReportService runs the pipeline on demand and reuses complete reports
// through the injected cache.
type ReportService struct {
	runner  *pipeline.Runner
	sources Sources
	cache   cache.ReportCache
	now     func() time.Time
}

func NewReportService(runner *pipeline.Runner, sources Sources, cacheImpl cache.ReportCache) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	if sources == nil {
		sources = Sources{}
	}
	return &ReportService{runner: runner, sources: sources, cache: cacheImpl, now: time.Now}
}

// WithClock replaces the clock used for default periods and stock cache keys.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	s.runner.WithClock(now)
	return s
}

func (s *ReportService) Now() time.Time {
	return s.now()
}

func (s *ReportService) Thresholds() domain.Thresholds {
	return s.runner.Thresholds()
}

// Refresh drops every cached report so the next call reads the marketplaces again.
func (s *ReportService) Refresh(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidate report cache: %w", err)
	}
	log.Info().Msg("report cache invalidated")
	return nil
}

func known(mp domain.Marketplace) bool {
	for _, m := range domain.Marketplaces() {
		if m == mp {
			return true
		}
	}
	return false
}

func (s *ReportService) Finance(ctx context.Context, mp domain.Marketplace, period domain.Period) (domain.PeriodReport, error) {
	if !known(mp) {
		return domain.PeriodReport{}, ErrUnknownMarketplace
	}

	key := cache.ReportKey("finance", mp, period)
	var report domain.PeriodReport
	if ok, err := s.cache.Get(ctx, key, &report); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Str("marketplace", string(mp)).Msg("finance: cache get failed")
	}

	report = s.runner.Finance(ctx, mp, s.sources.ledger(mp), period)
	s.store(ctx, key, report, report.Diagnostics)
	return report, nil
}

func (s *ReportService) Stock(ctx context.Context, mp domain.Marketplace) (domain.StockReport, error) {
	if !known(mp) {
		return domain.StockReport{}, ErrUnknownMarketplace
	}

	today := s.now()
	key := cache.ReportKey("stock", mp, domain.NewPeriod(today, today))
	var report domain.StockReport
	if ok, err := s.cache.Get(ctx, key, &report); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Str("marketplace", string(mp)).Msg("stock: cache get failed")
	}

	report = s.runner.Stock(ctx, mp, s.sources.stock(mp))
	s.store(ctx, key, report, report.Diagnostics)
	return report, nil
}

func (s *ReportService) Forecast(ctx context.Context, mp domain.Marketplace, period domain.Period) (domain.ForecastResult, error) {
	input, err := s.DigestInput(ctx, mp, domain.DigestDaily, period)
	if err != nil {
		return domain.ForecastResult{}, err
	}
	return *input.Forecast, nil
}

// DigestInput runs finance, stock and forecast for one digest.
func (s *ReportService) DigestInput(ctx context.Context, mp domain.Marketplace, kind domain.DigestKind, period domain.Period) (digest.Input, error) {
	fin, err := s.Finance(ctx, mp, period)
	if err != nil {
		return digest.Input{}, err
	}
	stock, err := s.Stock(ctx, mp)
	if err != nil {
		return digest.Input{}, err
	}
	forecast := s.runner.Forecast(fin, stock)

	return digest.Input{
		Kind:       kind,
		Finance:    fin,
		Stock:      &stock,
		Forecast:   &forecast,
		Thresholds: s.runner.Thresholds(),
	}, nil
}

// Preview renders a digest without delivering it.
func (s *ReportService) Preview(ctx context.Context, mp domain.Marketplace, kind domain.DigestKind, period domain.Period) (string, error) {
	input, err := s.DigestInput(ctx, mp, kind, period)
	if err != nil {
		return "", err
	}
	return digest.Format(input), nil
}

func (s *ReportService) Export(ctx context.Context, mp domain.Marketplace, kind domain.DigestKind, period domain.Period) ([]byte, error) {
	input, err := s.DigestInput(ctx, mp, kind, period)
	if err != nil {
		return nil, err
	}
	return digest.ExportXLSX(input)
}

func (s *ReportService) store(ctx context.Context, key string, value any, diag domain.Diagnostics) {
	if !diag.Cacheable() {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report cache set failed")
	}
}
