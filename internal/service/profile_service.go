package service

import (
	"context"
	"strings"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/repository/specification"
	"raw-ai-be/internal/repository/unitofwork"
)

type IProfileService interface {
	// GetProfile provisions a free profile on first sight of an authenticated user.
	GetProfile(ctx context.Context, auth entity.AuthContext) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, auth entity.AuthContext, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
	claimer    OrderClaimer
	logger     logger.ILogger
}

// NewProfileService wires profile reads and writes. claimer may be nil.
func NewProfileService(uowFactory unitofwork.RepositoryFactory, claimer OrderClaimer, logger logger.ILogger) IProfileService {
	return &profileService{uowFactory: uowFactory, claimer: claimer, logger: logger}
}

func (s *profileService) GetProfile(ctx context.Context, auth entity.AuthContext) (*dto.ProfileResponse, error) {
	if auth.IsAnonymous() {
		return nil, &apperror.AuthRequiredError{Reason: "sign in required"}
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := s.ensureProfile(ctx, uow, auth)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, auth entity.AuthContext, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if auth.IsAnonymous() {
		return nil, &apperror.AuthRequiredError{Reason: "sign in required"}
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := s.ensureProfile(ctx, uow, auth)
	if err != nil {
		return nil, err
	}

	profile.FullName = strings.TrimSpace(req.FullName)
	if req.AvatarURL != nil {
		avatar := strings.TrimSpace(*req.AvatarURL)
		if avatar == "" {
			profile.AvatarURL = nil
		} else {
			profile.AvatarURL = &avatar
		}
	}

	if err := uow.ProfileRepository().Update(ctx, profile); err != nil {
		return nil, apperror.Persistence("update profile", err)
	}

	s.logger.Info("PROFILE", "Profile updated", map[string]interface{}{
		"user_id": profile.Id.String(),
	})
	return toProfileResponse(profile), nil
}

func (s *profileService) ensureProfile(ctx context.Context, uow unitofwork.UnitOfWork, auth entity.AuthContext) (*entity.Profile, error) {
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: *auth.UserId})
	if err != nil {
		return nil, apperror.Persistence("load profile", err)
	}
	if profile != nil {
		return profile, nil
	}
	if auth.Email == "" {
		return nil, &apperror.NotFoundError{Resource: "profile"}
	}

	profile = &entity.Profile{
		Id:             *auth.UserId,
		Email:          strings.ToLower(strings.TrimSpace(auth.Email)),
		SubscribedPlan: entity.PlanFree,
	}
	if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
		return nil, apperror.Persistence("create profile", err)
	}
	s.logger.Info("PROFILE", "Profile provisioned", map[string]interface{}{
		"user_id": profile.Id.String(),
		"plan":    string(profile.SubscribedPlan),
	})
	return s.claimOrders(ctx, uow, profile), nil
}

// claimOrders promotes orders paid for with this email before the profile
// existed. Failures are left to the promotion sweeper.
func (s *profileService) claimOrders(ctx context.Context, uow unitofwork.UnitOfWork, profile *entity.Profile) *entity.Profile {
	if s.claimer == nil {
		return profile
	}
	n, err := s.claimer.ClaimOrders(ctx, profile)
	if err != nil {
		s.logger.Warn("PROFILE", "Failed to claim pending orders", map[string]interface{}{
			"user_id": profile.Id.String(),
			"error":   err.Error(),
		})
	}
	if n == 0 {
		return profile
	}

	s.logger.Info("PROFILE", "Claimed pending orders", map[string]interface{}{
		"user_id": profile.Id.String(),
		"count":   n,
	})
	reloaded, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: profile.Id})
	if err != nil || reloaded == nil {
		return profile
	}
	return reloaded
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	res := &dto.ProfileResponse{
		Id:             p.Id,
		Email:          p.Email,
		FullName:       p.FullName,
		SubscribedPlan: string(p.Plan()),
		CreatedAt:      p.CreatedAt,
	}
	if p.AvatarURL != nil {
		res.AvatarURL = *p.AvatarURL
	}
	return res
}
