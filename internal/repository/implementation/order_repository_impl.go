package implementation

import (
	"context"
	"errors"
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/mapper"
	"raw-ai-be/internal/model"
	"raw-ai-be/internal/repository/contract"
	"raw-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OrderMapper
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &OrderRepositoryImpl{
		db:     db,
		mapper: mapper.NewOrderMapper(),
	}
}

func (r *OrderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entity.SubscriptionOrder) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, order *entity.SubscriptionOrder) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionOrder, error) {
	var m model.SubscriptionOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *OrderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionOrder, error) {
	var models []*model.SubscriptionOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SubscriptionOrder{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OrderRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, paymentId, signature string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SubscriptionOrder{}).
		Where("id = ? AND status = ?", id, string(entity.OrderStatusPending)).
		Updates(map[string]interface{}{
			"status":             string(entity.OrderStatusCompleted),
			"gateway_payment_id": paymentId,
			"gateway_signature":  signature,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepositoryImpl) AssignOwner(ctx context.Context, id, userId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SubscriptionOrder{}).
		Where("id = ? AND user_id IS NULL", id).
		Update("user_id", userId)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepositoryImpl) MarkPromoted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SubscriptionOrder{}).
		Where("id = ? AND profile_promoted_at IS NULL", id).
		Update("profile_promoted_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
