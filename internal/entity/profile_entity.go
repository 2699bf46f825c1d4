// FILE: internal/entity/profile_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	Id             uuid.UUID
	Email          string
	FullName       string
	AvatarURL      *string
	SubscribedPlan Plan
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Plan returns the subscribed plan, defaulting to free.
func (p *Profile) Plan() Plan {
	if p == nil {
		return PlanFree
	}
	return PlanOrFree(string(p.SubscribedPlan))
}
