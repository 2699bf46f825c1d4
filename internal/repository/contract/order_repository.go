package contract

import (
	"context"
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.SubscriptionOrder) error
	Update(ctx context.Context, order *entity.SubscriptionOrder) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionOrder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionOrder, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkCompleted moves a pending order to completed. It returns false when the
	// order was not pending, which makes repeated verification a no-op.
	MarkCompleted(ctx context.Context, id uuid.UUID, paymentId, signature string) (bool, error)
	// MarkPromoted stamps an unpromoted order. It returns false when another
	// caller got there first.
	MarkPromoted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// AssignOwner links an order placed without a user id. Linked orders are left alone.
	AssignOwner(ctx context.Context, id, userId uuid.UUID) (bool, error)
}
