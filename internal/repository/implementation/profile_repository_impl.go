package implementation

import (
	"context"
	"errors"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/mapper"
	"raw-ai-be/internal/model"
	"raw-ai-be/internal/repository/contract"
	"raw-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func (r *ProfileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *entity.Profile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) CreateIfAbsent(ctx context.Context, profile *entity.Profile) (bool, error) {
	m := r.mapper.ToModel(profile)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Update writes display fields only. Plan changes go through UpdatePlan.
func (r *ProfileRepositoryImpl) Update(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", profile.Id).
		Updates(map[string]interface{}{
			"full_name":  profile.FullName,
			"avatar_url": profile.AvatarURL,
		}).Error
}

func (r *ProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error) {
	return r.findOne(r.db.WithContext(ctx), specs...)
}

func (r *ProfileRepositoryImpl) FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), specs...)
}

func (r *ProfileRepositoryImpl) findOne(db *gorm.DB, specs ...specification.Specification) (*entity.Profile, error) {
	var m model.Profile
	query := r.applySpecifications(db, specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProfileRepositoryImpl) UpdatePlan(ctx context.Context, id uuid.UUID, plan entity.Plan) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Update("subscribed_plan", string(plan))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
