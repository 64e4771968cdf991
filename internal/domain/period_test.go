package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesterday(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	p := Yesterday(now)
	assert.Equal(t, "2026-10-16", p.String())
	assert.Equal(t, 1, p.Days())
}

func TestPreviousWeek(t *testing.T) {
	cases := map[string]time.Time{
		"saturday": time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		"monday":   time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		"sunday":   time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC),
	}
	for name, now := range cases {
		t.Run(name, func(t *testing.T) {
			p := PreviousWeek(now)
			assert.Equal(t, "2026-10-05 - 2026-10-11", p.String())
			assert.Equal(t, time.Monday, p.From.Weekday())
			assert.Equal(t, 7, p.Days())
		})
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2026-10-01", "2026-10-31")
	require.NoError(t, err)
	assert.Equal(t, 31, p.Days())
	assert.True(t, p.Contains(time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))

	single, err := ParsePeriod("2026-10-01", "")
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())

	_, err = ParsePeriod("2026-10-05", "2026-10-01")
	assert.Error(t, err)

	_, err = ParsePeriod("yesterday", "")
	assert.Error(t, err)
}

func TestParseMarketplace(t *testing.T) {
	mp, ok := ParseMarketplace(" Wildberries ")
	require.True(t, ok)
	assert.Equal(t, MarketplaceWildberries, mp)
	assert.Equal(t, "Wildberries", mp.Label())

	_, ok = ParseMarketplace("amazon")
	assert.False(t, ok)
}

func TestReportRates(t *testing.T) {
	r := PeriodReport{GrossRevenue: 30000, Orders: 10, Returns: 2}
	assert.InDelta(t, 20.0, r.ReturnRate(), 1e-9)
	assert.InDelta(t, 3000.0, r.AverageOrderValue(), 1e-9)
	assert.Zero(t, PeriodReport{}.ReturnRate())
	assert.True(t, PeriodReport{}.IsEmpty())
}
