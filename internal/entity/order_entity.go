// FILE: internal/entity/order_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// SubscriptionOrder tracks one checkout attempt.
//
// Finalization is PENDING -> COMPLETED (payment verified) -> PROMOTED (profile
// plan updated, ProfilePromotedAt set). Status never moves backward.
type SubscriptionOrder struct {
	Id                uuid.UUID
	UserId            *uuid.UUID
	UserEmail         string
	Plan              Plan
	GatewayOrderId    string
	GatewayPaymentId  *string
	GatewaySignature  *string
	Amount            int64
	Currency          string
	Status            OrderStatus
	Notes             map[string]interface{}
	ProfilePromotedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (o *SubscriptionOrder) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

func (o *SubscriptionOrder) IsPromoted() bool {
	return o.ProfilePromotedAt != nil
}
