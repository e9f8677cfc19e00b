package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richard-senior/xgdash/internal/logger"
)

// SnapshotKey holds the cached snapshot JSON
const SnapshotKey = "xgdash:snapshot"

// Cached serves snapshots from Redis and only reaches the underlying source
// when the key is missing or expired. A snapshot stays valid until its TTL
// runs out or Invalidate is called. If Redis itself fails the source is
// read directly, so a cache outage never turns into empty data
type Cached struct {
	src    Source
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewCached wraps src with a Redis snapshot cache
func NewCached(src Source, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{src: src, client: client, ttl: ttl}
}

// Snapshot returns the cached snapshot or loads and stores a new one
func (c *Cached) Snapshot(ctx context.Context) (*Snapshot, error) {
	b, err := c.client.Get(ctx, SnapshotKey).Bytes()
	switch {
	case err == nil:
		var snap Snapshot
		jerr := json.Unmarshal(b, &snap)
		if jerr == nil {
			logger.Debug("Snapshot cache hit", snap.ID.String())
			return &snap, nil
		}
		logger.Warn("Discarding unreadable cached snapshot", jerr)
	case errors.Is(err, redis.Nil):
		logger.Debug("Snapshot cache miss")
	default:
		logger.Warn("Snapshot cache unavailable, reading warehouse directly", err)
	}

	snap, err := c.src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, snap)
	return snap, nil
}

func (c *Cached) store(ctx context.Context, snap *Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		logger.Warn("Could not encode snapshot for cache", err)
		return
	}
	if err := c.client.Set(ctx, SnapshotKey, b, c.ttl).Err(); err != nil {
		logger.Warn("Could not cache snapshot", err)
	}
}

// Invalidate drops the cached snapshot so the next read goes to the warehouse
func (c *Cached) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, SnapshotKey).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot cache: %w", err)
	}
	logger.Info("Snapshot cache invalidated")
	return nil
}

// Ping checks the warehouse. Redis being down is logged, not fatal
func (c *Cached) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed", err)
	}
	return c.src.Ping(ctx)
}

// Close closes the Redis client and the wrapped source
func (c *Cached) Close() error {
	cerr := c.client.Close()
	if err := c.src.Close(); err != nil {
		return err
	}
	return cerr
}
