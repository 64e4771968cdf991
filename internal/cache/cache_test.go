package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestMemoryReportCacheExpires(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryReportCache(time.Minute, clock.Now)
	ctx := context.Background()

	report := domain.PeriodReport{Marketplace: domain.MarketplaceOzon, GrossRevenue: 100, Orders: 2}
	require.NoError(t, c.Set(ctx, "k", report))

	var got domain.PeriodReport
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100.0, got.GrossRevenue)
	assert.Equal(t, 2, got.Orders)

	clock.t = clock.t.Add(time.Minute)
	ok, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryReportCacheInvalidateAll(t *testing.T) {
	c := NewMemoryReportCache(time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", 1))
	require.NoError(t, c.InvalidateAll(ctx))

	var v int
	ok, err := c.Get(ctx, "a", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoopReportCache(t *testing.T) {
	c := NewReportCache(config.CacheConfig{Backend: "none"})
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", 1))

	var v int
	ok, err := c.Get(ctx, "a", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReportKey(t *testing.T) {
	p1 := domain.NewPeriod(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC))
	p2 := domain.NewPeriod(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, ReportKey("finance", domain.MarketplaceOzon, p1), ReportKey("finance", domain.MarketplaceOzon, p1))
	assert.NotEqual(t, ReportKey("finance", domain.MarketplaceOzon, p1), ReportKey("finance", domain.MarketplaceOzon, p2))
	assert.NotEqual(t, ReportKey("finance", domain.MarketplaceOzon, p1), ReportKey("finance", domain.MarketplaceWildberries, p1))
	assert.Contains(t, ReportKey("stock", domain.MarketplaceOzon, p1), "sellerpulse:report:stock:")
}

func TestMemoryLocker(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewMemoryLocker(clock.Now)
	ctx := context.Background()

	lock, err := l.Obtain(ctx, "ozon:daily", time.Minute)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "ozon:daily", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = l.Obtain(ctx, "wb:daily", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, lock.Release(ctx))
	_, err = l.Obtain(ctx, "ozon:daily", time.Minute)
	assert.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = l.Obtain(ctx, "wb:daily", time.Minute)
	assert.NoError(t, err)
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:pw@localhost:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}
