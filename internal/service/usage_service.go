package service

import (
	"context"
	"math"
	"strings"
	"time"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/repository/contract"
	"raw-ai-be/internal/repository/specification"
	"raw-ai-be/internal/repository/unitofwork"
	"raw-ai-be/pkg/events"

	"github.com/google/uuid"
)

// IUsageService meters words per calendar month and gates features by plan.
type IUsageService interface {
	// CheckQuota decides without writing. A denial is returned as a decision, not an error.
	CheckQuota(ctx context.Context, auth entity.AuthContext, requestedWords int, required entity.Plan) (*dto.QuotaDecision, error)

	// ReserveAndRecord checks and appends the usage entry in one transaction
	// while holding the caller's profile row lock.
	ReserveAndRecord(ctx context.Context, auth entity.AuthContext, words int, feature entity.UsageFeature, required entity.Plan) (*dto.QuotaDecision, error)

	// Record appends one usage entry.
	Record(ctx context.Context, userId uuid.UUID, words int, feature entity.UsageFeature) error

	GetUsageSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error)
}

type usageService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      contract.UsageCache
	publisher  events.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewUsageService(
	uowFactory unitofwork.RepositoryFactory,
	cache contract.UsageCache,
	publisher events.Publisher,
	logger logger.ILogger,
) IUsageService {
	return &usageService{
		uowFactory: uowFactory,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *usageService) CheckQuota(ctx context.Context, auth entity.AuthContext, requestedWords int, required entity.Plan) (*dto.QuotaDecision, error) {
	if requestedWords <= 0 {
		return nil, apperror.NewValidation("requested words must be positive")
	}
	if auth.IsAnonymous() {
		return s.checkAnonymous(requestedWords, required), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: *auth.UserId})
	if err != nil {
		return nil, apperror.Persistence("load profile", err)
	}
	plan := profile.Plan()

	if d := tierDecision(plan, required); d != nil {
		s.logDenial(*auth.UserId, plan, requestedWords, d)
		return d, nil
	}

	limit := entity.LimitFor(plan)
	if limit.IsUnbounded() {
		return dto.Allow(nil), nil
	}

	used, err := s.currentUsage(ctx, uow, *auth.UserId)
	if err != nil {
		return nil, err
	}

	d := limitDecision(limit, used, requestedWords)
	if !d.Allowed {
		s.logDenial(*auth.UserId, plan, requestedWords, d)
	}
	return d, nil
}

func (s *usageService) ReserveAndRecord(ctx context.Context, auth entity.AuthContext, words int, feature entity.UsageFeature, required entity.Plan) (*dto.QuotaDecision, error) {
	if words <= 0 {
		return nil, apperror.NewValidation("requested words must be positive")
	}
	if auth.IsAnonymous() {
		return s.checkAnonymous(words, required), nil
	}
	userId := *auth.UserId

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("begin reservation", err)
	}
	defer uow.Rollback()

	// The row lock below needs a row, even for a user who never fetched a profile.
	if _, err := uow.ProfileRepository().CreateIfAbsent(ctx, &entity.Profile{
		Id:             userId,
		Email:          reservationEmail(auth),
		SubscribedPlan: entity.PlanFree,
	}); err != nil {
		return nil, apperror.Persistence("provision profile", err)
	}

	// Serializes concurrent reservations for the same user.
	profile, err := uow.ProfileRepository().FindOneForUpdate(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Persistence("lock profile", err)
	}
	plan := profile.Plan()

	if d := tierDecision(plan, required); d != nil {
		s.logDenial(userId, plan, words, d)
		return d, nil
	}

	d := dto.Allow(nil)
	if limit := entity.LimitFor(plan); !limit.IsUnbounded() {
		used, err := uow.UsageLogRepository().SumWords(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.CreatedSince{Since: entity.StartOfMonth(s.now())},
		)
		if err != nil {
			return nil, apperror.Persistence("sum usage", err)
		}
		d = limitDecision(limit, used, words)
		if !d.Allowed {
			s.logDenial(userId, plan, words, d)
			return d, nil
		}
	}

	entry := &entity.UsageLogEntry{UserId: userId, WordsCount: words, Feature: feature, CreatedAt: s.now()}
	if err := uow.UsageLogRepository().Create(ctx, entry); err != nil {
		return nil, apperror.Persistence("record usage", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("commit reservation", err)
	}

	s.afterRecord(ctx, entry)
	return d, nil
}

// reservationEmail falls back to a per-user address so the unique email index
// never blocks provisioning for tokens without an email claim.
func reservationEmail(auth entity.AuthContext) string {
	if email := strings.ToLower(strings.TrimSpace(auth.Email)); email != "" {
		return email
	}
	return auth.UserId.String() + "@users.invalid"
}

func (s *usageService) Record(ctx context.Context, userId uuid.UUID, words int, feature entity.UsageFeature) error {
	if words <= 0 {
		return apperror.NewValidation("recorded words must be positive")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry := &entity.UsageLogEntry{UserId: userId, WordsCount: words, Feature: feature, CreatedAt: s.now()}
	if err := uow.UsageLogRepository().Create(ctx, entry); err != nil {
		return apperror.Persistence("record usage", err)
	}

	s.afterRecord(ctx, entry)
	return nil
}

func (s *usageService) GetUsageSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Persistence("load profile", err)
	}
	plan := profile.Plan()

	used, err := s.currentUsage(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &dto.UsageSummaryResponse{
		Plan:        plan,
		Used:        used,
		PeriodStart: entity.StartOfMonth(now),
		ResetsAt:    entity.StartOfNextMonth(now),
	}

	limit := entity.LimitFor(plan)
	words, bounded := limit.Words()
	if !bounded {
		res.Unbounded = true
		return res, nil
	}
	remaining, _ := limit.Remaining(used)
	res.Limit = &words
	res.Remaining = &remaining
	if words > 0 {
		res.Percentage = math.Min(100, math.Round(float64(used)*10000/float64(words))/100)
	}
	return res, nil
}

// currentUsage reads through the cache. Never used inside a reservation.
func (s *usageService) currentUsage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (int, error) {
	now := s.now()
	period := entity.PeriodOf(now)
	var version uint64
	if s.cache != nil {
		if used, found := s.cache.Get(ctx, userId, period); found {
			return used, nil
		}
		version = s.cache.Version(ctx, userId)
	}

	used, err := uow.UsageLogRepository().SumWords(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedSince{Since: entity.StartOfMonth(now)},
	)
	if err != nil {
		return 0, apperror.Persistence("sum usage", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, userId, period, used, version)
	}
	return used, nil
}

func (s *usageService) afterRecord(ctx context.Context, entry *entity.UsageLogEntry) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, entry.UserId)
	}

	s.logger.Info("USAGE", "Usage recorded", map[string]interface{}{
		"user_id": entry.UserId.String(),
		"words":   entry.WordsCount,
		"feature": string(entry.Feature),
	})

	if s.publisher != nil {
		evt := events.New(events.UsageRecorded, map[string]interface{}{
			"user_id": entry.UserId.String(),
			"words":   entry.WordsCount,
			"feature": string(entry.Feature),
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("USAGE", "Failed to publish USAGE_RECORDED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *usageService) checkAnonymous(requestedWords int, required entity.Plan) *dto.QuotaDecision {
	capLeft := entity.AnonymousWordCap
	if required != entity.PlanFree && required != "" {
		return &dto.QuotaDecision{
			Reason:       "sign in required for this level",
			Remaining:    &capLeft,
			RequiresAuth: true,
			RequiredPlan: required,
		}
	}
	if requestedWords > entity.AnonymousWordCap {
		return &dto.QuotaDecision{
			Reason:       dto.ReasonAnonymousCap,
			Remaining:    &capLeft,
			RequiresAuth: true,
		}
	}
	return dto.Allow(&capLeft)
}

func (s *usageService) logDenial(userId uuid.UUID, plan entity.Plan, words int, d *dto.QuotaDecision) {
	details := map[string]interface{}{
		"user_id": userId.String(),
		"plan":    string(plan),
		"words":   words,
		"reason":  d.Reason,
	}
	if d.Remaining != nil {
		details["remaining"] = *d.Remaining
	}
	s.logger.Info("USAGE", "Quota denied", details)
}

// tierDecision returns a denial when plan does not cover required, nil otherwise.
func tierDecision(plan, required entity.Plan) *dto.QuotaDecision {
	if required == "" || plan.Covers(required) {
		return nil
	}
	return &dto.QuotaDecision{
		Reason:       dto.ReasonUpgradeRequired,
		RequiredPlan: required,
	}
}

func limitDecision(limit entity.Limit, used, requested int) *dto.QuotaDecision {
	remaining, _ := limit.Remaining(used)
	if limit.Allows(used, requested) {
		return dto.Allow(&remaining)
	}
	return &dto.QuotaDecision{
		Reason:       dto.ReasonLimitReached,
		Remaining:    &remaining,
		LimitReached: true,
	}
}
