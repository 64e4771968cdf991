package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/config"
)

// ErrLocked is returned when another run already holds the key.
var ErrLocked = errors.New("lock is held by another run")

type Lock interface {
	Release(ctx context.Context) error
}

// Locker guarantees that a digest for one marketplace, kind and period is
// produced by a single run at a time.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// NewLocker returns a redis lock when enabled and reachable, otherwise an
// in-process lock.
func NewLocker(cfg config.CacheConfig) Locker {
	if !cfg.LockEnabled {
		return NewMemoryLocker(time.Now)
	}
	client, err := newRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-process digest lock")
		return NewMemoryLocker(time.Now)
	}
	return NewRedisLocker(client)
}

type redisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: redislock.New(client)}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lock, err := l.client.Obtain(ctx, "lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, fmt.Errorf("obtain redis lock: %w", err)
	}
	return lock, nil
}

type memoryLocker struct {
	mu   sync.Mutex
	now  func() time.Time
	held map[string]time.Time
}

func NewMemoryLocker(now func() time.Time) Locker {
	if now == nil {
		now = time.Now
	}
	return &memoryLocker{now: now, held: make(map[string]time.Time)}
}

func (l *memoryLocker) Obtain(_ context.Context, key string, ttl time.Duration) (Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if until, ok := l.held[key]; ok && l.now().Before(until) {
		return nil, ErrLocked
	}
	l.held[key] = l.now().Add(ttl)
	return &memoryLock{locker: l, key: key}, nil
}

type memoryLock struct {
	locker *memoryLocker
	key    string
}

func (m *memoryLock) Release(context.Context) error {
	m.locker.mu.Lock()
	delete(m.locker.held, m.key)
	m.locker.mu.Unlock()
	return nil
}
