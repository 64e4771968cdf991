package service

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
	"github.com/andresuchdata/sellerpulse/internal/marketplace/ozon"
	"github.com/andresuchdata/sellerpulse/internal/marketplace/wildberries"
	"github.com/andresuchdata/sellerpulse/internal/pipeline"
)

// Source is a marketplace adapter that serves both the ledger and stock feeds.
type Source interface {
	pipeline.LedgerSource
	pipeline.StockSource
}

// Sources holds the adapters of the configured marketplaces. A marketplace
// without an entry is disabled or lacks credentials.
type Sources map[domain.Marketplace]Source

// NewSources builds adapters for every enabled marketplace with credentials.
func NewSources(cfg *config.Config) Sources {
	sources := make(Sources)
	timeout := cfg.Ingest.Timeout()

	switch {
	case !cfg.Ozon.Enabled:
		log.Info().Msg("ozon disabled")
	case cfg.Ozon.ClientID == "" || cfg.Ozon.APIKey == "":
		log.Warn().Msg("ozon credentials missing, marketplace skipped")
	default:
		sources[domain.MarketplaceOzon] = ozon.New(ozon.Config{
			ClientID: cfg.Ozon.ClientID,
			APIKey:   cfg.Ozon.APIKey,
			BaseURL:  cfg.Ozon.BaseURL,
			Timeout:  timeout,
		})
	}

	switch {
	case !cfg.Wildberries.Enabled:
		log.Info().Msg("wildberries disabled")
	case cfg.Wildberries.Token == "":
		log.Warn().Msg("wildberries token missing, marketplace skipped")
	default:
		sources[domain.MarketplaceWildberries] = wildberries.New(wildberries.Config{
			Token:   cfg.Wildberries.Token,
			BaseURL: cfg.Wildberries.StatsBaseURL,
			Timeout: timeout,
		})
	}

	return sources
}

// ledger returns a nil interface, never a typed nil, for missing sources.
func (s Sources) ledger(mp domain.Marketplace) pipeline.LedgerSource {
	if src, ok := s[mp]; ok && src != nil {
		return src
	}
	return nil
}

func (s Sources) stock(mp domain.Marketplace) pipeline.StockSource {
	if src, ok := s[mp]; ok && src != nil {
		return src
	}
	return nil
}

// PipelineConfig maps the finance and ingest sections onto pipeline settings.
func PipelineConfig(cfg *config.Config) pipeline.Config {
	opts := ingest.DefaultOptions()
	if cfg.Ingest.MaxPages > 0 {
		opts.MaxPages = cfg.Ingest.MaxPages
	}
	if cfg.Ingest.Retries >= 0 {
		opts.Retries = cfg.Ingest.Retries
	}
	if cfg.Ingest.RetryBackoffSeconds > 0 {
		opts.RetryBackoff = time.Duration(cfg.Ingest.RetryBackoffSeconds) * time.Second
	}
	if cfg.Ingest.PagesPerSecond > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.Ingest.PagesPerSecond), 1)
	}

	return pipeline.Config{
		Thresholds: cfg.Finance.Thresholds(),
		Ingest:     opts,
	}
}

// ChatIDs maps marketplaces to their digest destinations.
func ChatIDs(cfg *config.Config) map[domain.Marketplace]string {
	return map[domain.Marketplace]string{
		domain.MarketplaceOzon:        cfg.Ozon.ChatID,
		domain.MarketplaceWildberries: cfg.Wildberries.ChatID,
	}
}
