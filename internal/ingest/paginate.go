// Package ingest pulls paginated feeds from marketplace sources.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

// Cursor is the position of the next page. Each source uses one field.
type Cursor struct {
	Page   int
	Offset int
	Since  time.Time
	ID     int64
}

// After reports whether c is strictly further along than prev.
func (c Cursor) After(prev Cursor) bool {
	return c.Page > prev.Page || c.Offset > prev.Offset || c.Since.After(prev.Since) || c.ID > prev.ID
}

// Page is one response of a feed. A nil Next means the feed is exhausted.
type Page[T any] struct {
	Records []T
	Next    *Cursor
}

// FetchFunc fetches the page at cursor.
type FetchFunc[T any] func(ctx context.Context, cursor Cursor) (Page[T], error)

// Options bounds a collection run.
type Options struct {
	MaxPages     int
	Retries      int
	RetryBackoff time.Duration
	Limiter      *rate.Limiter
}

func DefaultOptions() Options {
	return Options{
		MaxPages:     500,
		Retries:      2,
		RetryBackoff: 2 * time.Second,
	}
}

// Result is everything collected plus how the collection went.
type Result[T any] struct {
	Records     []T
	Diagnostics domain.Diagnostics
}

// Collect walks the feed from start until it is exhausted or fails. It never
// returns an error: failures end the walk and are reported in Diagnostics.
func Collect[T any](ctx context.Context, feed string, start Cursor, fetch FetchFunc[T], opts Options) Result[T] {
	var (
		res    Result[T]
		cursor = start
		logger = log.With().Str("feed", feed).Logger()
	)

	for {
		if opts.MaxPages > 0 && res.Diagnostics.Pages+res.Diagnostics.SkippedPages >= opts.MaxPages {
			logger.Warn().Int("max_pages", opts.MaxPages).Msg("ingest: page limit reached, stopping")
			res.Diagnostics.Errors = append(res.Diagnostics.Errors, "page limit reached")
			break
		}

		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				res.Diagnostics.Errors = append(res.Diagnostics.Errors, err.Error())
				break
			}
		}

		page, err := fetchWithRetry(ctx, logger, cursor, fetch, opts)
		if err != nil {
			res.Diagnostics.Errors = append(res.Diagnostics.Errors, err.Error())
			logFailure(logger, err)

			if KindOf(err) == KindMalformed && page.Next != nil && page.Next.After(cursor) {
				res.Diagnostics.SkippedPages++
				cursor = *page.Next
				continue
			}
			break
		}

		res.Diagnostics.Pages++
		if len(page.Records) == 0 {
			break
		}
		res.Records = append(res.Records, page.Records...)

		if page.Next == nil {
			break
		}
		if !page.Next.After(cursor) {
			logger.Warn().Msg("ingest: cursor did not advance, stopping")
			break
		}
		cursor = *page.Next
	}

	res.Diagnostics.Records = len(res.Records)
	res.Diagnostics.Status = statusOf(res.Diagnostics)

	logger.Debug().
		Int("pages", res.Diagnostics.Pages).
		Int("records", res.Diagnostics.Records).
		Str("status", string(res.Diagnostics.Status)).
		Msg("ingest: feed collected")

	return res
}

func fetchWithRetry[T any](ctx context.Context, logger zerolog.Logger, cursor Cursor, fetch FetchFunc[T], opts Options) (Page[T], error) {
	var (
		page Page[T]
		err  error
	)
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("ingest: retrying page")
			select {
			case <-ctx.Done():
				return page, Transport(ctx.Err())
			case <-time.After(opts.RetryBackoff * time.Duration(attempt)):
			}
		}

		page, err = fetch(ctx, cursor)
		if err == nil || !retryable(err) {
			return page, err
		}
	}
	return page, err
}

func logFailure(logger zerolog.Logger, err error) {
	switch KindOf(err) {
	case KindAuth:
		logger.Error().Err(err).Msg("ingest: source rejected credentials")
	case KindMalformed:
		logger.Warn().Err(err).Msg("ingest: malformed page")
	default:
		logger.Warn().Err(err).Msg("ingest: fetch failed, returning partial data")
	}
}

func statusOf(d domain.Diagnostics) domain.RunStatus {
	switch {
	case len(d.Errors) > 0 && d.Records == 0:
		return domain.RunStatusFailed
	case len(d.Errors) > 0:
		return domain.RunStatusPartial
	case d.Records == 0:
		return domain.RunStatusEmpty
	}
	return domain.RunStatusComplete
}

// NextPage advances a 1-based page index until pageCount is reached.
func NextPage(cursor Cursor, pageCount int) *Cursor {
	if cursor.Page >= pageCount {
		return nil
	}
	return &Cursor{Page: cursor.Page + 1}
}

// NextOffset advances an offset cursor, stopping on a short page.
func NextOffset(cursor Cursor, got, limit int) *Cursor {
	if got < limit {
		return nil
	}
	return &Cursor{Offset: cursor.Offset + limit}
}

// NextID continues after the last seen record id, stopping on a short page.
func NextID(lastID int64, got, limit int) *Cursor {
	if got == 0 || got < limit {
		return nil
	}
	return &Cursor{ID: lastID}
}

// NextSince continues from the timestamp of the last record, stopping on a short page.
// The source may re-deliver records at that timestamp.
func NextSince(last time.Time, got, limit int) *Cursor {
	if got == 0 || got < limit {
		return nil
	}
	return &Cursor{Since: last}
}
