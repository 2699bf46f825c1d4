package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type UsageCache struct {
	// mu orders Set against Invalidate so a stale total never lands after an invalidation.
	mu    sync.Mutex
	cache *cache.Cache
}

// NewUsageCache keeps monthly totals for ttl and purges expired items every 10 minutes.
func NewUsageCache(ttl time.Duration) contract.UsageCache {
	return &UsageCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func usageKey(userId uuid.UUID, period entity.UsagePeriod) string {
	return fmt.Sprintf("usage:%s:%s", userId, period)
}

func versionKey(userId uuid.UUID) string {
	return fmt.Sprintf("version:%s", userId)
}

func (r *UsageCache) Get(ctx context.Context, userId uuid.UUID, period entity.UsagePeriod) (int, bool) {
	if x, found := r.cache.Get(usageKey(userId, period)); found {
		return x.(int), true
	}
	return 0, false
}

func (r *UsageCache) Version(ctx context.Context, userId uuid.UUID) uint64 {
	if x, found := r.cache.Get(versionKey(userId)); found {
		return x.(uint64)
	}
	return 0
}

func (r *UsageCache) Set(ctx context.Context, userId uuid.UUID, period entity.UsagePeriod, used int, version uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Version(ctx, userId) != version {
		return false
	}
	r.cache.Set(usageKey(userId, period), used, cache.DefaultExpiration)
	return true
}

// Invalidate drops every period cached for the user.
func (r *UsageCache) Invalidate(ctx context.Context, userId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Set(versionKey(userId), r.Version(ctx, userId)+1, cache.NoExpiration)

	prefix := fmt.Sprintf("usage:%s:", userId)
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}
