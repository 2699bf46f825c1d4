package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageLog struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index:idx_usage_logs_user_created,priority:1"`
	WordsCount int       `gorm:"not null"`
	Feature    string    `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_usage_logs_user_created,priority:2"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}

func (u *UsageLog) BeforeCreate(tx *gorm.DB) error {
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	return nil
}
