// FILE: internal/entity/usage_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UsageFeature string

const (
	UsageFeatureDetect   UsageFeature = "detect"
	UsageFeatureHumanize UsageFeature = "humanize"
)

// UsageLogEntry is append-only; the sum of entries since the start of the month is current usage.
type UsageLogEntry struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	WordsCount int
	Feature    UsageFeature
	CreatedAt  time.Time
}

// StartOfMonth returns day 1, 00:00:00 of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfNextMonth is when the current usage period resets.
func StartOfNextMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}

// UsagePeriod identifies a calendar month, e.g. "2026-10".
type UsagePeriod string

func PeriodOf(t time.Time) UsagePeriod {
	return UsagePeriod(t.Format("2006-01"))
}
