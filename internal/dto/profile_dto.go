// FILE: internal/dto/profile_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	Id             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	SubscribedPlan string    `json:"subscribedPlan"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UpdateProfileRequest only carries display fields; the plan is never client-editable.
type UpdateProfileRequest struct {
	FullName  string  `json:"fullName" validate:"required,min=1,max=255"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}
