package mapper

import (
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		Id:             p.Id,
		Email:          p.Email,
		FullName:       p.FullName,
		AvatarURL:      p.AvatarURL,
		SubscribedPlan: entity.PlanOrFree(p.SubscribedPlan),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}
	return &model.Profile{
		Id:             p.Id,
		Email:          p.Email,
		FullName:       p.FullName,
		AvatarURL:      p.AvatarURL,
		SubscribedPlan: string(entity.PlanOrFree(string(p.SubscribedPlan))),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
