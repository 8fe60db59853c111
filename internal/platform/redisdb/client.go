package redisdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
)

// Client is an optional read cache. NewFromEnv returns (nil, nil) when
// REDIS_ADDR is unset; every method is safe on a nil receiver so callers
// never branch on cache availability.
type Client struct {
	rdb *goredis.Client
	log *logger.Logger
	ttl time.Duration
}

func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("redisdb: logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttl := 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("REDIS_CACHE_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redisdb: ping: %w", err)
	}

	return &Client{
		rdb: rdb,
		log: log.With("client", "RedisDB"),
		ttl: ttl,
	}, nil
}

func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.rdb == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("cache get failed", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

func (c *Client) Set(ctx context.Context, key, val string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.Debug("cache set failed", "key", key, "error", err)
	}
}

// Version returns the cache namespace version. Writers bump it so stale
// query responses expire immediately instead of waiting out the TTL.
func (c *Client) Version(ctx context.Context) int64 {
	if c == nil || c.rdb == nil {
		return 0
	}
	v, err := c.rdb.Get(ctx, "kg:cache:ver").Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *Client) BumpVersion(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, "kg:cache:ver").Err(); err != nil {
		c.log.Debug("cache version bump failed", "error", err)
	}
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	err := c.rdb.Close()
	c.rdb = nil
	return err
}
