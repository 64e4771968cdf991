// Package ozon reads the Ozon Seller API finance and stock feeds.
package ozon

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/classify"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/marketplace"
	"github.com/andresuchdata/sellerpulse/internal/pipeline/finance"
)

const (
	DefaultBaseURL  = "https://api-seller.ozon.ru"
	DefaultPageSize = 1000
)

type Config struct {
	ClientID string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

// Client is an Ozon ledger, stock, balance and totals source.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Client{cfg: cfg, http: marketplace.NewHTTPClient(cfg.Timeout)}
}

func (c *Client) Marketplace() domain.Marketplace {
	return domain.MarketplaceOzon
}

func (c *Client) Classifier() finance.Classifier {
	return classify.Ozon
}

// Policy: Ozon reports no payout per line, so net is gross minus the line's fees.
func (c *Client) Policy() finance.Policy {
	return finance.Policy{}
}

func (c *Client) post(ctx context.Context, path string, body, dst any) (bool, error) {
	req, err := marketplace.NewJSONRequest(ctx, http.MethodPost, c.cfg.BaseURL+path, body)
	if err != nil {
		return false, err
	}
	req.Header.Set("Client-Id", c.cfg.ClientID)
	req.Header.Set("Api-Key", c.cfg.APIKey)
	return marketplace.DoJSON(c.http, req, dst)
}

type balanceResponse struct {
	Balance struct {
		Amount float64 `json:"amount"`
	} `json:"balance"`
	Result struct {
		Balance float64 `json:"balance"`
	} `json:"result"`
}

// Balance returns the seller's current balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp balanceResponse
	if _, err := c.post(ctx, "/v1/finance/balance", struct{}{}, &resp); err != nil {
		return 0, err
	}
	if resp.Balance.Amount != 0 {
		return resp.Balance.Amount, nil
	}
	return resp.Result.Balance, nil
}

type totalsRequest struct {
	Date struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"date"`
	PostingNumber   string `json:"posting_number"`
	TransactionType string `json:"transaction_type"`
}

type totalsResponse struct {
	Result domain.LedgerTotals `json:"result"`
}

// Totals reads /v3/finance/transaction/totals for the period.
func (c *Client) Totals(ctx context.Context, period domain.Period) (domain.LedgerTotals, error) {
	var req totalsRequest
	req.Date.From = period.From.Format(ledgerDateLayout)
	req.Date.To = period.End().Format(ledgerDateLayout)
	req.TransactionType = "all"

	var resp totalsResponse
	if _, err := c.post(ctx, "/v3/finance/transaction/totals", req, &resp); err != nil {
		return domain.LedgerTotals{}, err
	}
	return resp.Result, nil
}
