package specification

import (
	"strings"

	"raw-ai-be/internal/entity"

	"gorm.io/gorm"
)

type ByGatewayOrderID struct {
	OrderID string
}

func (s ByGatewayOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("gateway_order_id = ?", s.OrderID)
}

type ByOrderStatus struct {
	Status entity.OrderStatus
}

func (s ByOrderStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// Unpromoted selects completed orders whose profile update has not landed,
// including anonymous orders still waiting for a profile with their email.
type Unpromoted struct{}

func (s Unpromoted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND profile_promoted_at IS NULL", string(entity.OrderStatusCompleted))
}

// UnlinkedByEmail selects orders placed without a user id for the given email.
type UnlinkedByEmail struct {
	Email string
}

func (s UnlinkedByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id IS NULL AND user_email = ?", strings.ToLower(strings.TrimSpace(s.Email)))
}
