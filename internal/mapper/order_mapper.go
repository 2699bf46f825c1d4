package mapper

import (
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/model"

	"gorm.io/datatypes"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.SubscriptionOrder) *entity.SubscriptionOrder {
	if o == nil {
		return nil
	}
	var notes map[string]interface{}
	if o.Notes != nil {
		notes = map[string]interface{}(o.Notes)
	}
	return &entity.SubscriptionOrder{
		Id:                o.Id,
		UserId:            o.UserId,
		UserEmail:         o.UserEmail,
		Plan:              entity.Plan(o.Plan),
		GatewayOrderId:    o.GatewayOrderId,
		GatewayPaymentId:  o.GatewayPaymentId,
		GatewaySignature:  o.GatewaySignature,
		Amount:            o.Amount,
		Currency:          o.Currency,
		Status:            entity.OrderStatus(o.Status),
		Notes:             notes,
		ProfilePromotedAt: o.ProfilePromotedAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.SubscriptionOrder) *model.SubscriptionOrder {
	if o == nil {
		return nil
	}
	var notes datatypes.JSONMap
	if o.Notes != nil {
		notes = datatypes.JSONMap(o.Notes)
	}
	return &model.SubscriptionOrder{
		Id:                o.Id,
		UserId:            o.UserId,
		UserEmail:         o.UserEmail,
		Plan:              string(o.Plan),
		GatewayOrderId:    o.GatewayOrderId,
		GatewayPaymentId:  o.GatewayPaymentId,
		GatewaySignature:  o.GatewaySignature,
		Amount:            o.Amount,
		Currency:          o.Currency,
		Status:            string(o.Status),
		Notes:             notes,
		ProfilePromotedAt: o.ProfilePromotedAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func (m *OrderMapper) ToEntities(models []*model.SubscriptionOrder) []*entity.SubscriptionOrder {
	entities := make([]*entity.SubscriptionOrder, len(models))
	for i, o := range models {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
