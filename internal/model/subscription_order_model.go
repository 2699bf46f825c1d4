package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionOrder struct {
	Id                uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserId            *uuid.UUID        `gorm:"type:uuid;index"`
	UserEmail         string            `gorm:"type:varchar(255);not null;index"`
	Plan              string            `gorm:"type:varchar(20);not null"`
	GatewayOrderId    string            `gorm:"type:varchar(255);uniqueIndex;not null"`
	GatewayPaymentId  *string           `gorm:"type:varchar(255)"`
	GatewaySignature  *string           `gorm:"type:varchar(255)"`
	Amount            int64             `gorm:"not null"`
	Currency          string            `gorm:"type:varchar(10);not null"`
	Status            string            `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes             datatypes.JSONMap
	ProfilePromotedAt *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (SubscriptionOrder) TableName() string {
	return "subscription_orders"
}

func (o *SubscriptionOrder) BeforeCreate(tx *gorm.DB) error {
	if o.Id == uuid.Nil {
		o.Id = uuid.New()
	}
	return nil
}
