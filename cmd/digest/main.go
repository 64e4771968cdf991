// cmd/digest/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/sellerpulse/internal/app"
	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/pkg/logger"
)

type appKey struct{}

func marketplaceFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "marketplace",
		Aliases: []string{"m"},
		Usage:   "Marketplace to process: ozon, wb or all (comma-separated)",
		Value:   "all",
		EnvVars: []string{"DIGEST_MARKETPLACE"},
	}
}

func periodFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "Period start, YYYY-MM-DD (default: yesterday)"},
		&cli.StringFlag{Name: "to", Usage: "Period end, YYYY-MM-DD (default: same as --from)"},
		&cli.BoolFlag{Name: "refresh", Usage: "Drop cached reports before reading the marketplaces"},
	}
}

func initApp(c *cli.Context) error {
	cfg := config.Load()
	if c.Bool("log-json") {
		logger.UseJSON()
	}
	logger.SetLevel(cfg.LogLevel)

	a := app.New(c.Context, cfg, app.Options{
		DBURL:  c.String("db-url"),
		DryRun: c.Bool("dry-run"),
	})
	c.Context = context.WithValue(c.Context, appKey{}, a)
	return nil
}

func closeApp(c *cli.Context) error {
	if a, ok := c.Context.Value(appKey{}).(*app.App); ok && a != nil {
		a.Close()
	}
	return nil
}

// appFrom returns the application built in Before, dropping cached reports
// first when --refresh is set.
func appFrom(c *cli.Context) (*app.App, error) {
	a, ok := c.Context.Value(appKey{}).(*app.App)
	if !ok || a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	if c.Bool("refresh") {
		if err := a.Reports.Refresh(c.Context); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// parseMarketplaces expands "all" and comma-separated names, keeping order
// and dropping repeats.
func parseMarketplaces(raw string) ([]domain.Marketplace, error) {
	if strings.TrimSpace(raw) == "" || strings.EqualFold(strings.TrimSpace(raw), "all") {
		return domain.Marketplaces(), nil
	}

	var (
		out  []domain.Marketplace
		seen = map[domain.Marketplace]bool{}
	)
	for _, name := range strings.Split(raw, ",") {
		mp, ok := domain.ParseMarketplace(name)
		if !ok {
			return nil, fmt.Errorf("unknown marketplace %q", strings.TrimSpace(name))
		}
		if !seen[mp] {
			seen[mp] = true
			out = append(out, mp)
		}
	}
	return out, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "digest",
		Usage: "Build and deliver marketplace finance and stock digests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Database connection string for the digest journal (optional)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Log digests instead of sending and archiving them",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write JSON log lines instead of console output",
			},
		},
		Before: initApp,
		After:  closeApp,
		Commands: []*cli.Command{
			{
				Name:   "daily",
				Usage:  "Send yesterday's digest",
				Flags:  append([]cli.Flag{marketplaceFlag()}, periodFlags()...),
				Action: runDigest(domain.DigestDaily),
			},
			{
				Name:   "weekly",
				Usage:  "Send the digest of the previous Monday-Sunday week",
				Flags:  append([]cli.Flag{marketplaceFlag()}, periodFlags()...),
				Action: runDigest(domain.DigestWeekly),
			},
			{
				Name:   "report",
				Usage:  "Print the finance report as JSON",
				Flags:  append([]cli.Flag{marketplaceFlag()}, periodFlags()...),
				Action: runFinance,
			},
			{
				Name:   "stock",
				Usage:  "Print the stock report as JSON",
				Flags: []cli.Flag{
					marketplaceFlag(),
					&cli.BoolFlag{Name: "refresh", Usage: "Drop cached reports before reading the marketplaces"},
				},
				Action: runStock,
			},
			{
				Name:   "forecast",
				Usage:  "Print the stock depletion forecast as JSON",
				Flags:  append([]cli.Flag{marketplaceFlag()}, periodFlags()...),
				Action: runForecast,
			},
			{
				Name:  "export",
				Usage: "Write the digest workbook of one marketplace to a file",
				Flags: append([]cli.Flag{
					marketplaceFlag(),
					&cli.StringFlag{Name: "kind", Usage: "daily or weekly", Value: "daily"},
					&cli.StringFlag{Name: "out", Usage: "Output file (default: <marketplace>_<kind>_<from>.xlsx)"},
				}, periodFlags()...),
				Action: runExport,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("digest command failed")
	}
}
