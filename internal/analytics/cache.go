package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const versionKey = "analytics:ver"

// Cache is a read-through cache for analytics aggregates. Keys embed a
// version counter that every ledger mutation bumps, so a write invalidates
// every cached aggregate at once without tracking individual keys.
//
// A nil Cache (no REDIS_URL configured) is a valid no-op.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
	Log    *zap.Logger
}

func NewCache(url string, log *zap.Logger) *Cache {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		return nil
	}
	return &Cache{Client: client, TTL: 60 * time.Second, Log: log}
}

// Bump invalidates every cached aggregate. Best-effort: a failed bump only
// means a stale read until the TTL expires.
func (c *Cache) Bump(ctx context.Context) {
	if c == nil || c.Client == nil {
		return
	}
	if err := c.Client.Incr(ctx, versionKey).Err(); err != nil {
		c.Log.Warn("analytics cache bump failed", zap.Error(err))
	}
}

func (c *Cache) key(ctx context.Context, suffix string) string {
	ver, err := c.Client.Get(ctx, versionKey).Result()
	if err != nil {
		ver = "0"
	}
	return fmt.Sprintf("analytics:%s:%s", ver, suffix)
}

func (c *Cache) Get(ctx context.Context, suffix string, out any) bool {
	if c == nil || c.Client == nil {
		return false
	}
	raw, err := c.Client.Get(ctx, c.key(ctx, suffix)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (c *Cache) Set(ctx context.Context, suffix string, v any) {
	if c == nil || c.Client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, c.key(ctx, suffix), data, c.TTL).Err(); err != nil {
		c.Log.Warn("analytics cache set failed", zap.Error(err))
	}
}
