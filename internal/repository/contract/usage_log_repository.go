package contract

import (
	"context"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/repository/specification"
)

type UsageLogRepository interface {
	Create(ctx context.Context, entry *entity.UsageLogEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageLogEntry, error)
	// SumWords returns 0 when nothing matches.
	SumWords(ctx context.Context, specs ...specification.Specification) (int, error)
}
