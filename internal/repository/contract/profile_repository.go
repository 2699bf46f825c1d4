package contract

import (
	"context"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	// CreateIfAbsent inserts the profile unless its id or email is taken and
	// reports whether a row was written.
	CreateIfAbsent(ctx context.Context, profile *entity.Profile) (bool, error)
	// Update writes display fields only.
	Update(ctx context.Context, profile *entity.Profile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error)

	// FindOneForUpdate locks the matched row until the surrounding transaction ends.
	FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error)

	// UpdatePlan reports whether a row was changed.
	UpdatePlan(ctx context.Context, id uuid.UUID, plan entity.Plan) (bool, error)
}
