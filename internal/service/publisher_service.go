// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"

	"raw-ai-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// PromotionRetryTopic carries orders whose plan promotion failed after payment.
const PromotionRetryTopic = "plan.promotion.retry"

type IPublisherService interface {
	EnqueuePromotionRetry(ctx context.Context, gatewayOrderId string, attempt int) error
}

type publisherService struct {
	publisher message.Publisher
	topicName string
}

func NewPublisherService(publisher message.Publisher, topicName string) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
	}
}

func (p *publisherService) EnqueuePromotionRetry(ctx context.Context, gatewayOrderId string, attempt int) error {
	payload, err := json.Marshal(dto.PromotionRetryMessage{
		GatewayOrderId: gatewayOrderId,
		Attempt:        attempt,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}
