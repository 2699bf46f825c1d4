package unitofwork

import (
	"context"

	"raw-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProfileRepository() contract.ProfileRepository
	UsageLogRepository() contract.UsageLogRepository
	OrderRepository() contract.OrderRepository
}
