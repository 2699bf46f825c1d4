// FILE: internal/service/cache_sync_service.go
package service

import (
	"context"
	"fmt"

	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/repository/contract"
	"raw-ai-be/pkg/events"
	pktNats "raw-ai-be/pkg/nats"

	"github.com/google/uuid"
)

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, consumerName string, handler pktNats.EventHandler) error
}

// ICacheSyncService drops per-instance usage cache entries when another
// instance records usage or changes a plan.
type ICacheSyncService interface {
	Start(ctx context.Context) error
}

type cacheSyncService struct {
	subscriber EventSubscriber
	cache      contract.UsageCache
	logger     logger.ILogger
	instanceId string
}

func NewCacheSyncService(subscriber EventSubscriber, cache contract.UsageCache, logger logger.ILogger, instanceId string) ICacheSyncService {
	return &cacheSyncService{
		subscriber: subscriber,
		cache:      cache,
		logger:     logger,
		instanceId: instanceId,
	}
}

func (s *cacheSyncService) Start(ctx context.Context) error {
	for _, eventType := range []string{events.UsageRecorded, events.PlanUpgraded} {
		// Every instance needs every message, so each one gets its own consumer.
		consumer := fmt.Sprintf("usage-cache-%s-%s", s.instanceId, eventType)
		if err := s.subscriber.Subscribe(ctx, eventType, consumer, s.handle); err != nil {
			return err
		}
	}
	return nil
}

func (s *cacheSyncService) handle(ctx context.Context, event events.Event) error {
	raw, _ := event.Payload()["user_id"].(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		// Nothing to invalidate; acking avoids redelivery of a malformed event.
		s.logger.Warn("USAGE", "Event without user id", map[string]interface{}{"event": event.EventType()})
		return nil
	}
	s.cache.Invalidate(ctx, userId)
	s.logger.Debug("USAGE", "Usage cache invalidated", map[string]interface{}{
		"user_id": userId.String(),
		"event":   event.EventType(),
	})
	return nil
}
