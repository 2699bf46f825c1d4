package memory

import (
	"context"
	"testing"
	"time"

	"raw-ai-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUsageCache(t *testing.T) {
	ctx := context.Background()
	c := NewUsageCache(time.Minute)

	user := uuid.New()
	other := uuid.New()
	oct := entity.UsagePeriod("2026-10")
	sep := entity.UsagePeriod("2026-09")

	_, found := c.Get(ctx, user, oct)
	assert.False(t, found)

	c.Set(ctx, user, oct, 1200, c.Version(ctx, user))
	c.Set(ctx, user, sep, 40, c.Version(ctx, user))
	c.Set(ctx, other, oct, 7, c.Version(ctx, other))

	used, found := c.Get(ctx, user, oct)
	assert.True(t, found)
	assert.Equal(t, 1200, used)

	c.Invalidate(ctx, user)

	_, found = c.Get(ctx, user, oct)
	assert.False(t, found)
	_, found = c.Get(ctx, user, sep)
	assert.False(t, found)

	used, found = c.Get(ctx, other, oct)
	assert.True(t, found)
	assert.Equal(t, 7, used)
}

func TestUsageCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewUsageCache(20 * time.Millisecond)
	user := uuid.New()

	assert.True(t, c.Set(ctx, user, "2026-10", 5, 0))
	time.Sleep(40 * time.Millisecond)

	_, found := c.Get(ctx, user, "2026-10")
	assert.False(t, found)
}

func TestUsageCacheDropsSetAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewUsageCache(time.Minute)
	user := uuid.New()
	period := entity.UsagePeriod("2026-10")

	// A reader takes the version, then a concurrent write invalidates.
	v := c.Version(ctx, user)
	c.Invalidate(ctx, user)
	assert.Equal(t, v+1, c.Version(ctx, user))

	assert.False(t, c.Set(ctx, user, period, 4800, v))
	_, found := c.Get(ctx, user, period)
	assert.False(t, found)

	assert.True(t, c.Set(ctx, user, period, 5100, c.Version(ctx, user)))
	used, found := c.Get(ctx, user, period)
	assert.True(t, found)
	assert.Equal(t, 5100, used)
}
