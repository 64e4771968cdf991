package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

func testOptions() Options {
	return Options{MaxPages: 50, Retries: 2, RetryBackoff: time.Millisecond}
}

func TestCollectPageCount(t *testing.T) {
	pages := map[int][]int{1: {1, 2}, 2: {3, 4}, 3: {5}}
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		return Page[int]{Records: pages[c.Page], Next: NextPage(c, 3)}, nil
	}

	res := Collect(context.Background(), "test", Cursor{Page: 1}, fetch, testOptions())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res.Records)
	assert.Equal(t, 3, res.Diagnostics.Pages)
	assert.Equal(t, domain.RunStatusComplete, res.Diagnostics.Status)
}

func TestCollectShortPageStops(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		calls++
		n := 3
		if c.Offset >= 6 {
			n = 1
		}
		recs := make([]int, n)
		return Page[int]{Records: recs, Next: NextOffset(c, n, 3)}, nil
	}

	res := Collect(context.Background(), "test", Cursor{}, fetch, testOptions())
	assert.Len(t, res.Records, 7)
	assert.Equal(t, 3, calls)
}

func TestCollectEmptyPageStops(t *testing.T) {
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		return Page[int]{Next: &Cursor{Page: c.Page + 1}}, nil
	}

	res := Collect(context.Background(), "test", Cursor{Page: 1}, fetch, testOptions())
	assert.Empty(t, res.Records)
	assert.Equal(t, domain.RunStatusEmpty, res.Diagnostics.Status)
	assert.Equal(t, 1, res.Diagnostics.Pages)
}

func TestCollectFailureReturnsPartial(t *testing.T) {
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		if c.Page == 2 {
			return Page[int]{}, FromStatus(http.StatusUnauthorized, "bad token")
		}
		return Page[int]{Records: []int{c.Page}, Next: &Cursor{Page: c.Page + 1}}, nil
	}

	res := Collect(context.Background(), "test", Cursor{Page: 1}, fetch, testOptions())
	assert.Equal(t, []int{1}, res.Records)
	assert.Equal(t, domain.RunStatusPartial, res.Diagnostics.Status)
	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Contains(t, res.Diagnostics.Errors[0], "auth")
}

func TestCollectFirstPageFailure(t *testing.T) {
	fetch := func(_ context.Context, _ Cursor) (Page[int], error) {
		return Page[int]{}, Transport(errors.New("connection refused"))
	}

	res := Collect(context.Background(), "test", Cursor{}, fetch, Options{Retries: 1, RetryBackoff: time.Millisecond})
	assert.Empty(t, res.Records)
	assert.Equal(t, domain.RunStatusFailed, res.Diagnostics.Status)
}

func TestCollectRetriesTransientErrors(t *testing.T) {
	attempts := 0
	fetch := func(_ context.Context, _ Cursor) (Page[int], error) {
		attempts++
		if attempts < 3 {
			return Page[int]{}, FromStatus(http.StatusBadGateway, "upstream")
		}
		return Page[int]{Records: []int{7}}, nil
	}

	res := Collect(context.Background(), "test", Cursor{}, fetch, testOptions())
	assert.Equal(t, []int{7}, res.Records)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, domain.RunStatusComplete, res.Diagnostics.Status)
}

func TestCollectDoesNotRetryAuth(t *testing.T) {
	attempts := 0
	fetch := func(_ context.Context, _ Cursor) (Page[int], error) {
		attempts++
		return Page[int]{}, FromStatus(http.StatusForbidden, "")
	}

	Collect(context.Background(), "test", Cursor{}, fetch, testOptions())
	assert.Equal(t, 1, attempts)
}

func TestCollectSkipsMalformedPageWhenCursorAdvances(t *testing.T) {
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		next := NextPage(c, 3)
		if c.Page == 2 {
			return Page[int]{Next: next}, Malformed(fmt.Errorf("decode page %d", c.Page))
		}
		return Page[int]{Records: []int{c.Page}, Next: next}, nil
	}

	res := Collect(context.Background(), "test", Cursor{Page: 1}, fetch, testOptions())
	assert.Equal(t, []int{1, 3}, res.Records)
	assert.Equal(t, 1, res.Diagnostics.SkippedPages)
	assert.Equal(t, domain.RunStatusPartial, res.Diagnostics.Status)
}

func TestCollectStopsOnStuckCursor(t *testing.T) {
	ts := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	fetch := func(_ context.Context, _ Cursor) (Page[int], error) {
		calls++
		return Page[int]{Records: []int{1, 2}, Next: NextSince(ts, 2, 2)}, nil
	}

	res := Collect(context.Background(), "test", Cursor{Since: ts}, fetch, testOptions())
	assert.Equal(t, 1, calls)
	assert.Len(t, res.Records, 2)
}

func TestCollectMaxPages(t *testing.T) {
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		return Page[int]{Records: []int{c.Page}, Next: &Cursor{Page: c.Page + 1}}, nil
	}

	res := Collect(context.Background(), "test", Cursor{Page: 1}, fetch, Options{MaxPages: 4})
	assert.Len(t, res.Records, 4)
	assert.Equal(t, domain.RunStatusPartial, res.Diagnostics.Status)
}

func TestCollectWithLimiter(t *testing.T) {
	fetch := func(_ context.Context, c Cursor) (Page[int], error) {
		return Page[int]{Records: []int{c.Page}, Next: NextPage(c, 2)}, nil
	}
	opts := testOptions()
	opts.Limiter = rate.NewLimiter(rate.Every(time.Millisecond), 1)

	res := Collect(context.Background(), "test", Cursor{Page: 1}, fetch, opts)
	assert.Equal(t, []int{1, 2}, res.Records)
}

func TestErrorTaxonomy(t *testing.T) {
	auth := FromStatus(http.StatusUnauthorized, "")
	assert.ErrorIs(t, auth, ErrAuth)
	assert.NotErrorIs(t, auth, ErrTransport)

	server := FromStatus(http.StatusInternalServerError, "")
	assert.ErrorIs(t, server, ErrTransport)
	assert.True(t, retryable(server))
	assert.False(t, retryable(FromStatus(http.StatusBadRequest, "")))

	assert.Equal(t, KindMalformed, KindOf(Malformed(errors.New("x"))))
	assert.Equal(t, KindTransport, KindOf(errors.New("plain")))
}
