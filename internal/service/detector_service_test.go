package service

import (
	"context"
	"testing"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/pkg/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAnonymous(t *testing.T) {
	svc := NewDetectorService(detector.New(), newTestUsageService(newFactory(t), nil), logger.NewNop(), false)

	res, err := svc.Detect(context.Background(), entity.Anonymous(), aiParagraph)
	require.NoError(t, err)
	assert.Equal(t, detector.VerdictAI, res.Verdict)
}

func TestDetectValidation(t *testing.T) {
	svc := NewDetectorService(detector.New(), newTestUsageService(newFactory(t), nil), logger.NewNop(), false)

	for _, text := range []string{"", "  ", "too short to score"} {
		_, err := svc.Detect(context.Background(), entity.Anonymous(), text)
		var v *apperror.ValidationError
		assert.ErrorAs(t, err, &v, "text %q", text)
	}
}

func TestDetectAnonymousCap(t *testing.T) {
	svc := NewDetectorService(detector.New(), newTestUsageService(newFactory(t), nil), logger.NewNop(), false)

	_, err := svc.Detect(context.Background(), entity.Anonymous(), words(201))
	var auth *apperror.AuthRequiredError
	require.ErrorAs(t, err, &auth)
	assert.Equal(t, 401, apperror.StatusOf(err))
}

func TestDetectRecordsUsage(t *testing.T) {
	for _, strict := range []bool{false, true} {
		f := newFactory(t)
		svc := NewDetectorService(detector.New(), newTestUsageService(f, nil), logger.NewNop(), strict)
		id := seedProfile(t, f, "user@example.com", entity.PlanFree)

		_, err := svc.Detect(context.Background(), authFor(id), plainParagraph)
		require.NoError(t, err)
		assert.Equal(t, detector.CountWords(plainParagraph), usedWords(t, f, id), "strict=%v", strict)
	}
}

func TestDetectLimitReached(t *testing.T) {
	f := newFactory(t)
	svc := NewDetectorService(detector.New(), newTestUsageService(f, nil), logger.NewNop(), true)
	id := seedProfile(t, f, "user@example.com", entity.PlanFree)
	seedUsage(t, f, id, 4990)

	_, err := svc.Detect(context.Background(), authFor(id), plainParagraph)
	var quota *apperror.QuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, 10, quota.Remaining)
	assert.Equal(t, 4990, usedWords(t, f, id))
}
