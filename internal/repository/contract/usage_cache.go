package contract

import (
	"context"

	"raw-ai-be/internal/entity"

	"github.com/google/uuid"
)

// UsageCache holds the monthly word total per user. Misses return found=false.
// Implementations must be safe for concurrent use.
//
// Every Invalidate bumps the user's version. A reader takes Version before it
// sums the log and passes it to Set, which drops the value when an
// invalidation happened in between.
type UsageCache interface {
	Get(ctx context.Context, userId uuid.UUID, period entity.UsagePeriod) (used int, found bool)
	Version(ctx context.Context, userId uuid.UUID) uint64
	Set(ctx context.Context, userId uuid.UUID, period entity.UsagePeriod, used int, version uint64) (stored bool)
	Invalidate(ctx context.Context, userId uuid.UUID)
}
