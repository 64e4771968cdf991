// Package wildberries reads the Wildberries statistics API realization and stock feeds.
package wildberries

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/classify"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/marketplace"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/finance"
)

const (
	DefaultBaseURL       = "https://statistics-api.wildberries.ru"
	DefaultLedgerLimit   = 100000
	DefaultStockPageSize = 60000
)

type Config struct {
	Token         string
	BaseURL       string
	Timeout       time.Duration
	LedgerLimit   int
	StockPageSize int
}

// Client is a Wildberries ledger and stock source.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.LedgerLimit <= 0 {
		cfg.LedgerLimit = DefaultLedgerLimit
	}
	if cfg.StockPageSize <= 0 {
		cfg.StockPageSize = DefaultStockPageSize
	}
	return &Client{cfg: cfg, http: marketplace.NewHTTPClient(cfg.Timeout)}
}

func (c *Client) Marketplace() domain.Marketplace {
	return domain.MarketplaceWildberries
}

func (c *Client) Classifier() finance.Classifier {
	return classify.Wildberries
}

// Policy: payouts come from ppvz_for_pay; commission is not reported and is derived.
func (c *Client) Policy() finance.Policy {
	return finance.Policy{NetFromPaid: true, DerivesCommission: true}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) (bool, error) {
	req, err := marketplace.NewJSONRequest(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", c.cfg.Token)
	return marketplace.DoJSON(c.http, req, dst)
}

// parseTime accepts WB timestamps with or without a zone.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return ts
	}
	return time.Time{}
}
