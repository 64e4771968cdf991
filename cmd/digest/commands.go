package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/service"
	"github.com/andresuchdata/sellerpulse/pkg/logger"
)

// runDigest runs one digest per selected marketplace concurrently. A digest
// already produced by another scheduler is not an error.
func runDigest(kind domain.DigestKind) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := appFrom(c)
		if err != nil {
			return err
		}
		mps, err := parseMarketplaces(c.String("marketplace"))
		if err != nil {
			return err
		}

		period, err := periodFrom(c, func() domain.Period { return kind.PeriodFor(a.Reports.Now()) })
		if err != nil {
			return err
		}

		results := make([]*service.DigestResult, len(mps))
		g, ctx := errgroup.WithContext(c.Context)
		for i, mp := range mps {
			g.Go(func() error {
				res, err := a.Digests.RunPeriod(ctx, mp, kind, period)
				if errors.Is(err, service.ErrDigestInProgress) {
					logger.Log.Warn().Str("marketplace", string(mp)).Str("kind", string(kind)).Msg("digest already in progress, skipping")
					return nil
				}
				if err != nil {
					return fmt.Errorf("%s %s digest: %w", mp, kind, err)
				}
				results[i] = &res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, res := range results {
			if res == nil {
				continue
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%s - %s\t%s\tdelivered=%t\n",
				res.Run.Marketplace, res.Run.Kind,
				res.Run.PeriodFrom.Format(domain.DateLayout), res.Run.PeriodTo.Format(domain.DateLayout),
				res.Run.Status, res.Run.Delivered)
		}
		return nil
	}
}

// periodFrom reads --from/--to, falling back to def when --from is empty.
func periodFrom(c *cli.Context, def func() domain.Period) (domain.Period, error) {
	if c.String("from") == "" {
		return def(), nil
	}
	return domain.ParsePeriod(c.String("from"), c.String("to"))
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runFinance(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	mps, err := parseMarketplaces(c.String("marketplace"))
	if err != nil {
		return err
	}
	period, err := periodFrom(c, func() domain.Period { return domain.Yesterday(a.Reports.Now()) })
	if err != nil {
		return err
	}

	reports := make([]domain.PeriodReport, 0, len(mps))
	for _, mp := range mps {
		report, err := a.Reports.Finance(c.Context, mp, period)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	return printJSON(c, reports)
}

func runStock(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	mps, err := parseMarketplaces(c.String("marketplace"))
	if err != nil {
		return err
	}

	reports := make([]domain.StockReport, 0, len(mps))
	for _, mp := range mps {
		report, err := a.Reports.Stock(c.Context, mp)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	return printJSON(c, reports)
}

func runForecast(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	mps, err := parseMarketplaces(c.String("marketplace"))
	if err != nil {
		return err
	}
	period, err := periodFrom(c, func() domain.Period { return domain.Yesterday(a.Reports.Now()) })
	if err != nil {
		return err
	}

	results := make([]domain.ForecastResult, 0, len(mps))
	for _, mp := range mps {
		result, err := a.Reports.Forecast(c.Context, mp, period)
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	return printJSON(c, results)
}

func runExport(c *cli.Context) error {
	a, err := appFrom(c)
	if err != nil {
		return err
	}
	mps, err := parseMarketplaces(c.String("marketplace"))
	if err != nil {
		return err
	}
	if len(mps) != 1 {
		return fmt.Errorf("export needs exactly one marketplace, got %d", len(mps))
	}
	kind, ok := domain.ParseDigestKind(c.String("kind"))
	if !ok {
		return fmt.Errorf("invalid kind %q", c.String("kind"))
	}
	period, err := periodFrom(c, func() domain.Period { return kind.PeriodFor(a.Reports.Now()) })
	if err != nil {
		return err
	}

	data, err := a.Reports.Export(c.Context, mps[0], kind, period)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = fmt.Sprintf("%s_%s_%s.xlsx", mps[0], kind, period.From.Format(domain.DateLayout))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}
