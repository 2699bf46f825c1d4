package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(255)"`
	AvatarURL      *string   `gorm:"type:text"`
	SubscribedPlan string    `gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}
