package service

import (
	"context"
	"errors"
	"strings"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/pkg/detector"
)

type IDetectorService interface {
	Detect(ctx context.Context, auth entity.AuthContext, text string) (*detector.Result, error)
}

type detectorService struct {
	detector *detector.Detector
	usage    IUsageService
	logger   logger.ILogger
	strict   bool
}

// NewDetectorService gates detection on the free tier. With strict set, words are
// reserved before scoring instead of recorded afterwards.
func NewDetectorService(d *detector.Detector, usage IUsageService, logger logger.ILogger, strict bool) IDetectorService {
	return &detectorService{detector: d, usage: usage, logger: logger, strict: strict}
}

func (s *detectorService) Detect(ctx context.Context, auth entity.AuthContext, text string) (*detector.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.NewValidation("Text is required")
	}
	words := detector.CountWords(text)
	if words < detector.MinWords {
		return nil, apperror.NewValidation("Text must contain at least %d words", detector.MinWords)
	}

	if err := gate(ctx, s.usage, auth, words, entity.UsageFeatureDetect, entity.PlanFree, s.strict); err != nil {
		return nil, err
	}

	result, err := s.detector.Detect(text)
	if err != nil {
		if errors.Is(err, detector.ErrEmptyText) || errors.Is(err, detector.ErrTextTooShort) {
			return nil, apperror.NewValidation("%s", err.Error())
		}
		return nil, err
	}

	s.logger.Info("DETECTOR", "Text analyzed", map[string]interface{}{
		"words":         words,
		"overall_score": result.OverallScore,
		"verdict":       string(result.Verdict),
		"patterns":      len(result.Patterns),
		"anonymous":     auth.IsAnonymous(),
	})

	if !s.strict {
		recordAfter(ctx, s.usage, s.logger, "DETECTOR", auth, words, entity.UsageFeatureDetect)
	}
	return result, nil
}

// gate runs the quota check (or reservation) and turns a denial into its policy error.
func gate(ctx context.Context, usage IUsageService, auth entity.AuthContext, words int, feature entity.UsageFeature, required entity.Plan, strict bool) error {
	var (
		decision *dto.QuotaDecision
		err      error
	)
	if strict {
		decision, err = usage.ReserveAndRecord(ctx, auth, words, feature, required)
	} else {
		decision, err = usage.CheckQuota(ctx, auth, words, required)
	}
	if err != nil {
		return err
	}
	return decision.Err()
}

// recordAfter books usage for signed-in callers once the work succeeded.
// A failure here never fails the request.
func recordAfter(ctx context.Context, usage IUsageService, log logger.ILogger, module string, auth entity.AuthContext, words int, feature entity.UsageFeature) {
	if auth.IsAnonymous() {
		return
	}
	if err := usage.Record(ctx, *auth.UserId, words, feature); err != nil {
		log.Error(module, "Failed to record usage", map[string]interface{}{
			"user_id": auth.UserId.String(),
			"words":   words,
			"error":   err.Error(),
		})
	}
}
