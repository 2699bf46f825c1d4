// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/repository/specification"
	"raw-ai-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	DefaultPromotionMaxAttempts = 5
	DefaultPromotionBackoff     = 2 * time.Second
	DefaultSweepInterval        = 5 * time.Minute
	maxPromotionBackoff         = time.Minute
)

type IConsumerService interface {
	Consume(ctx context.Context) error

	// Sweep re-enqueues completed orders that were never promoted, e.g. after a crash.
	Sweep(ctx context.Context) (int, error)

	// RunSweeper sweeps once, then on every interval until ctx is done.
	RunSweeper(ctx context.Context, interval time.Duration)
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	payments    IPaymentService
	retry       IPublisherService
	logger      logger.ILogger
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) bool
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	payments IPaymentService,
	retry IPublisherService,
	logger logger.ILogger,
	maxAttempts int,
	backoff time.Duration,
) IConsumerService {
	if maxAttempts <= 0 {
		maxAttempts = DefaultPromotionMaxAttempts
	}
	if backoff <= 0 {
		backoff = DefaultPromotionBackoff
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		uowFactory:  uowFactory,
		payments:    payments,
		retry:       retry,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		sleep:       sleepCtx,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) Sweep(ctx context.Context) (int, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	orders, err := uow.OrderRepository().FindAll(ctx, specification.Unpromoted{})
	if err != nil {
		return 0, apperror.Persistence("find unpromoted orders", err)
	}

	queued := 0
	for _, o := range orders {
		if err := cs.retry.EnqueuePromotionRetry(ctx, o.GatewayOrderId, 1); err != nil {
			cs.logger.Error("PROMOTION", "Failed to enqueue sweep retry", map[string]interface{}{
				"order_id": o.GatewayOrderId,
				"error":    err.Error(),
			})
			continue
		}
		queued++
	}
	if queued > 0 {
		cs.logger.Info("PROMOTION", "Queued unpromoted orders", map[string]interface{}{"count": queued})
	}
	return queued, nil
}

func (cs *consumerService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := cs.Sweep(ctx); err != nil {
			cs.logger.Error("PROMOTION", "Sweep failed", map[string]interface{}{"error": err.Error()})
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PromotionRetryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("PROMOTION", "Invalid retry message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	res, err := cs.payments.PromoteOrder(ctx, payload.GatewayOrderId)
	if err == nil {
		cs.logger.Info("PROMOTION", "Retry succeeded", map[string]interface{}{
			"order_id": payload.GatewayOrderId,
			"attempt":  payload.Attempt,
			"promoted": res.Promoted,
		})
		msg.Ack()
		return
	}

	// Missing or unpaid orders will not fix themselves.
	var notFound *apperror.NotFoundError
	var invalid *apperror.ValidationError
	if errors.As(err, &notFound) || errors.As(err, &invalid) {
		cs.logger.Warn("PROMOTION", "Dropping retry", map[string]interface{}{
			"order_id": payload.GatewayOrderId,
			"error":    err.Error(),
		})
		msg.Ack()
		return
	}

	if payload.Attempt >= cs.maxAttempts {
		cs.logger.Error("PROMOTION", "Giving up on promotion", map[string]interface{}{
			"order_id": payload.GatewayOrderId,
			"attempt":  payload.Attempt,
			"error":    err.Error(),
		})
		msg.Ack()
		return
	}

	msg.Ack()
	delay := cs.delayFor(payload.Attempt)
	cs.logger.Warn("PROMOTION", "Promotion retry failed", map[string]interface{}{
		"order_id": payload.GatewayOrderId,
		"attempt":  payload.Attempt,
		"next_in":  delay.String(),
		"error":    err.Error(),
	})

	go func() {
		if !cs.sleep(ctx, delay) {
			return
		}
		if err := cs.retry.EnqueuePromotionRetry(ctx, payload.GatewayOrderId, payload.Attempt+1); err != nil {
			cs.logger.Error("PROMOTION", "Failed to re-enqueue promotion", map[string]interface{}{
				"order_id": payload.GatewayOrderId,
				"error":    err.Error(),
			})
		}
	}()
}

// delayFor doubles the base backoff per attempt, capped at a minute.
func (cs *consumerService) delayFor(attempt int) time.Duration {
	d := cs.backoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxPromotionBackoff {
			return maxPromotionBackoff
		}
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
