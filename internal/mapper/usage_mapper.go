package mapper

import (
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(u *model.UsageLog) *entity.UsageLogEntry {
	if u == nil {
		return nil
	}
	return &entity.UsageLogEntry{
		Id:         u.Id,
		UserId:     u.UserId,
		WordsCount: u.WordsCount,
		Feature:    entity.UsageFeature(u.Feature),
		CreatedAt:  u.CreatedAt,
	}
}

func (m *UsageMapper) ToModel(u *entity.UsageLogEntry) *model.UsageLog {
	if u == nil {
		return nil
	}
	return &model.UsageLog{
		Id:         u.Id,
		UserId:     u.UserId,
		WordsCount: u.WordsCount,
		Feature:    string(u.Feature),
		CreatedAt:  u.CreatedAt,
	}
}
