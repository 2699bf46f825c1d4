package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmail matches case-insensitively; emails are stored lower-cased.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", strings.ToLower(strings.TrimSpace(s.Email)))
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
