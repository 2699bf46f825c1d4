package service

import (
	"context"
	"testing"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileProvisionsFreeProfile(t *testing.T) {
	ctx := context.Background()
	f := newFactory(t)
	svc := NewProfileService(f, nil, logger.NewNop())

	id := uuid.New()
	res, err := svc.GetProfile(ctx, entity.AuthContext{UserId: &id, Email: "New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, id, res.Id)
	assert.Equal(t, "new@example.com", res.Email)
	assert.Equal(t, "free", res.SubscribedPlan)
	assert.Equal(t, entity.PlanFree, planOf(t, f, id))
}

func TestGetProfileErrors(t *testing.T) {
	svc := NewProfileService(newFactory(t), nil, logger.NewNop())

	_, err := svc.GetProfile(context.Background(), entity.Anonymous())
	var auth *apperror.AuthRequiredError
	assert.ErrorAs(t, err, &auth)

	_, err = svc.GetProfile(context.Background(), authFor(uuid.New()))
	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateProfileKeepsPlan(t *testing.T) {
	ctx := context.Background()
	f := newFactory(t)
	svc := NewProfileService(f, nil, logger.NewNop())
	id := seedProfile(t, f, "ultra@example.com", entity.PlanUltra)

	avatar := "https://cdn.example.com/a.png"
	res, err := svc.UpdateProfile(ctx, authFor(id), &dto.UpdateProfileRequest{FullName: "  Ada  ", AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.FullName)
	assert.Equal(t, avatar, res.AvatarURL)
	assert.Equal(t, entity.PlanUltra, planOf(t, f, id))

	again, err := svc.GetProfile(ctx, authFor(id))
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FullName)
	assert.Equal(t, "ultra", again.SubscribedPlan)
}

// A guest pays first and signs up afterwards with the same email.
func TestGetProfileClaimsOrdersPaidBeforeSignup(t *testing.T) {
	ctx := context.Background()
	h := newPaymentHarness(t)
	svc := NewProfileService(h.f, h.svc, logger.NewNop())

	_, err := h.svc.CreateOrder(ctx, entity.Anonymous(), &dto.CreateOrderRequest{Plan: "pro", Email: "guest@example.com"})
	require.NoError(t, err)
	_, err = h.svc.VerifyPayment(ctx, signed("order_1", "pay_1"))
	require.NoError(t, err)
	require.False(t, h.order(t, "order_1").IsPromoted())

	id := uuid.New()
	res, err := svc.GetProfile(ctx, entity.AuthContext{UserId: &id, Email: "Guest@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "pro", res.SubscribedPlan)
	assert.Equal(t, entity.PlanPro, planOf(t, h.f, id))

	o := h.order(t, "order_1")
	assert.True(t, o.IsPromoted())
	require.NotNil(t, o.UserId)
	assert.Equal(t, id, *o.UserId)
	assert.Equal(t, 1, h.pub.count(events.PlanUpgraded))
}
