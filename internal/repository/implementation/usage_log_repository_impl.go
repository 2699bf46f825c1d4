package implementation

import (
	"context"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/mapper"
	"raw-ai-be/internal/model"
	"raw-ai-be/internal/repository/contract"
	"raw-ai-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UsageLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageLogRepository(db *gorm.DB) contract.UsageLogRepository {
	return &UsageLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageLogRepositoryImpl) Create(ctx context.Context, entry *entity.UsageLogEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *UsageLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageLogEntry, error) {
	var models []*model.UsageLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]*entity.UsageLogEntry, len(models))
	for i, m := range models {
		entries[i] = r.mapper.ToEntity(m)
	}
	return entries, nil
}

func (r *UsageLogRepositoryImpl) SumWords(ctx context.Context, specs ...specification.Specification) (int, error) {
	var total int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UsageLog{}), specs...)
	if err := query.Select("COALESCE(SUM(words_count), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}
