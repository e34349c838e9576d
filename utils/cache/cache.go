package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	ConfigTTL   = 15 * time.Minute
	WordListTTL = 5 * time.Minute
)

// Service is a JSON read-through cache in front of config reads. A nil
// *Service behaves like a disabled cache.
type Service struct {
	prefix string
	store  Store
	redis  bool
	logger *slog.Logger
	stats  stats
}

type stats struct {
	hit, miss, set, del, errors, fallbackLoad atomic.Uint64
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Hit          uint64
	Miss         uint64
	Set          uint64
	Del          uint64
	Errors       uint64
	FallbackLoad uint64
}

// New wraps store. logger may be nil.
func New(store Store, prefix string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	_, isRedis := store.(*RedisStore)
	return &Service{prefix: prefix, store: store, redis: isRedis, logger: logger}
}

// Disabled returns a Service backed by NoopStore.
func Disabled(prefix string) *Service {
	return New(NoopStore{}, prefix, nil)
}

// Key namespaces suffix under the configured prefix.
func (c *Service) Key(suffix string) string {
	if c == nil {
		return suffix
	}
	return c.prefix + ":" + suffix
}

// GetJSON decodes the cached value into dst. The bool reports a hit.
func (c *Service) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.stats.errors.Add(1)
		return false, err
	}
	if !ok {
		c.stats.miss.Add(1)
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("failed to decode cache value for %s: %w", key, err)
	}
	c.stats.hit.Add(1)
	return true, nil
}

// SetJSON stores value with ttl, rounded up to at least one second.
func (c *Service) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = time.Second
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		c.stats.errors.Add(1)
		return err
	}
	c.stats.set.Add(1)
	return nil
}

// Del removes key.
func (c *Service) Del(ctx context.Context, key string) error {
	if err := c.store.Del(ctx, key); err != nil {
		c.stats.errors.Add(1)
		return err
	}
	c.stats.del.Add(1)
	return nil
}

// Invalidate deletes keys and only logs failures. Writers call this after
// committing so the next read reloads from the database.
func (c *Service) Invalidate(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	for _, key := range keys {
		if err := c.Del(ctx, key); err != nil {
			c.logger.Warn("cache invalidate failed", "cache_key", key, "error", err)
		}
	}
}

// GetOrLoadJSON returns the cached value for key, or calls load and caches
// its result. Cache errors fall back to load; load errors are returned.
func GetOrLoadJSON[T any](ctx context.Context, c *Service, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	var cached T
	hit, err := c.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logger.Warn("cache get failed; falling back to database", "cache_key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	c.stats.fallbackLoad.Add(1)
	loaded, err := load(ctx)
	if err != nil {
		return loaded, err
	}

	if err := c.SetJSON(ctx, key, loaded, ttl); err != nil {
		c.logger.Warn("cache set failed; returning database value", "cache_key", key, "error", err)
	}
	return loaded, nil
}

// Snapshot reads the counters.
func (c *Service) Snapshot() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Hit:          c.stats.hit.Load(),
		Miss:         c.stats.miss.Load(),
		Set:          c.stats.set.Load(),
		Del:          c.stats.del.Load(),
		Errors:       c.stats.errors.Load(),
		FallbackLoad: c.stats.fallbackLoad.Load(),
	}
}

func (c *Service) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.store.Ping(ctx)
}

func (c *Service) IsRedisEnabled() bool {
	return c != nil && c.redis
}

func EscalationConfigKey(c *Service, guildID int64) string {
	return c.Key(fmt.Sprintf("guild:%d:config:escalation", guildID))
}

func ModlogConfigKey(c *Service, guildID int64) string {
	return c.Key(fmt.Sprintf("guild:%d:config:modlog", guildID))
}

func WordFilterConfigKey(c *Service, guildID int64) string {
	return c.Key(fmt.Sprintf("guild:%d:config:word_filter", guildID))
}

func WordFilterWordsKey(c *Service, guildID int64) string {
	return c.Key(fmt.Sprintf("guild:%d:config:word_filter_words", guildID))
}
