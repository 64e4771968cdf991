// Package cache holds the report cache and the digest send lock. Both are
// explicit objects handed to the services that need them.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/domain"
)

const reportKeyPrefix = "sellerpulse:report"

// ReportCache stores JSON-encodable reports for a bounded time.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	InvalidateAll(ctx context.Context) error
}

// ReportKey identifies one report of one marketplace over one period.
func ReportKey(kind string, mp domain.Marketplace, period domain.Period) string {
	raw := strings.Join([]string{kind, string(mp), period.String()}, "|")
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s:%s", reportKeyPrefix, kind, hex.EncodeToString(sum[:]))
}

// NewReportCache builds the backend named by cfg.Backend. An unreachable
// redis falls back to the in-memory cache.
func NewReportCache(cfg config.CacheConfig) ReportCache {
	ttl := cacheTTL(cfg)

	switch cfg.Backend {
	case "none", "off", "disabled":
		return NewNoopReportCache()
	case "redis":
		client, err := newRedisClient(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory report cache")
			return NewMemoryReportCache(ttl, time.Now)
		}
		return NewRedisReportCache(client, ttl)
	default:
		return NewMemoryReportCache(ttl, time.Now)
	}
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryReportCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryReportCache keeps entries in process. now is injectable for tests.
func NewMemoryReportCache(ttl time.Duration, now func() time.Time) ReportCache {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &memoryReportCache{ttl: ttl, now: now, entries: make(map[string]memoryEntry)}
}

func (c *memoryReportCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dst); err != nil {
		return false, fmt.Errorf("decode cached report: %w", err)
	}
	return true, nil
}

func (c *memoryReportCache) Set(_ context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached report: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{payload: payload, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *memoryReportCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &redisReportCache{client: client, ttl: ttl}
}

func (c *redisReportCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("decode cached report: %w", err)
	}
	return true, nil
}

func (c *redisReportCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached report: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix, scanBatchSize)
}

type noopReportCache struct{}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (n *noopReportCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (n *noopReportCache) Set(ctx context.Context, key string, value any) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}
