package specification

import (
	"time"

	"gorm.io/gorm"
)

// CreatedSince keeps rows created at or after Since.
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
