package rediscache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 30 * time.Second
	// versionTTL outlives any reader by far; an expired version only makes a Set miss.
	versionTTL = 35 * 24 * time.Hour
)

// setIfVersion writes the total only when the user's version is unchanged.
// KEYS: usage key, index key, version key. ARGV: used, version, ttl ms.
var setIfVersion = redis.NewScript(`
local cur = redis.call('GET', KEYS[3])
if (cur or '0') ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SADD', KEYS[2], KEYS[1])
redis.call('PEXPIRE', KEYS[2], ARGV[3])
return 1
`)

// UsageCache stores monthly totals in redis so every instance sees the same value.
// Redis errors degrade to cache misses.
type UsageCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewUsageCache(rdb *redis.Client, ttl time.Duration, log logger.ILogger) contract.UsageCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &UsageCache{rdb: rdb, ttl: ttl, logger: log}
}

// Keys share the user hash tag so the script stays on one cluster slot.
func usageKey(userId uuid.UUID, period entity.UsagePeriod) string {
	return fmt.Sprintf("rawai:usage:{%s}:%s", userId, period)
}

func indexKey(userId uuid.UUID) string {
	return fmt.Sprintf("rawai:usage:{%s}:keys", userId)
}

func versionKey(userId uuid.UUID) string {
	return fmt.Sprintf("rawai:usage:{%s}:version", userId)
}

func (c *UsageCache) warn(msg string, userId uuid.UUID, err error) {
	c.logger.Warn("USAGE", msg, map[string]interface{}{
		"user_id": userId.String(),
		"error":   err.Error(),
	})
}

func (c *UsageCache) Get(ctx context.Context, userId uuid.UUID, period entity.UsagePeriod) (int, bool) {
	used, err := c.rdb.Get(ctx, usageKey(userId, period)).Int()
	if err != nil {
		if err != redis.Nil {
			c.warn("Usage cache read failed", userId, err)
		}
		return 0, false
	}
	return used, true
}

func (c *UsageCache) Version(ctx context.Context, userId uuid.UUID) uint64 {
	v, err := c.rdb.Get(ctx, versionKey(userId)).Uint64()
	if err != nil {
		if err != redis.Nil {
			c.warn("Usage cache version read failed", userId, err)
		}
		return 0
	}
	return v
}

func (c *UsageCache) Set(ctx context.Context, userId uuid.UUID, period entity.UsagePeriod, used int, version uint64) bool {
	stored, err := setIfVersion.Run(ctx, c.rdb,
		[]string{usageKey(userId, period), indexKey(userId), versionKey(userId)},
		used, strconv.FormatUint(version, 10), c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.warn("Usage cache write failed", userId, err)
		return false
	}
	return stored == 1
}

func (c *UsageCache) Invalidate(ctx context.Context, userId uuid.UUID) {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, versionKey(userId))
	pipe.Expire(ctx, versionKey(userId), versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.warn("Usage cache invalidate failed", userId, err)
		return
	}

	keys, err := c.rdb.SMembers(ctx, indexKey(userId)).Result()
	if err != nil && err != redis.Nil {
		c.warn("Usage cache invalidate failed", userId, err)
		return
	}
	keys = append(keys, indexKey(userId))
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.warn("Usage cache invalidate failed", userId, err)
	}
}
