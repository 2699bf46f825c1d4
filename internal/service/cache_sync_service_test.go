package service

import (
	"context"
	"testing"
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/repository/memory"
	"raw-ai-be/pkg/events"
	pktNats "raw-ai-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	handlers  map[string]pktNats.EventHandler
	consumers []string
}

func (f *fakeSubscriber) Subscribe(_ context.Context, eventType, consumerName string, handler pktNats.EventHandler) error {
	if f.handlers == nil {
		f.handlers = map[string]pktNats.EventHandler{}
	}
	f.handlers[eventType] = handler
	f.consumers = append(f.consumers, consumerName)
	return nil
}

func TestCacheSyncInvalidatesOnEvents(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewUsageCache(time.Minute)
	sub := &fakeSubscriber{}
	svc := NewCacheSyncService(sub, cache, logger.NewNop(), "host-1")
	require.NoError(t, svc.Start(ctx))

	assert.ElementsMatch(t, []string{
		"usage-cache-host-1-USAGE_RECORDED",
		"usage-cache-host-1-PLAN_UPGRADED",
	}, sub.consumers)

	userId := uuid.New()
	period := entity.PeriodOf(time.Now())
	for _, eventType := range []string{events.UsageRecorded, events.PlanUpgraded} {
		require.True(t, cache.Set(ctx, userId, period, 42, cache.Version(ctx, userId)))
		err := sub.handlers[eventType](ctx, events.New(eventType, map[string]interface{}{"user_id": userId.String()}))
		require.NoError(t, err)
		_, found := cache.Get(ctx, userId, period)
		assert.False(t, found, eventType)
	}

	assert.NoError(t, sub.handlers[events.UsageRecorded](ctx, events.New(events.UsageRecorded, map[string]interface{}{})))
}
