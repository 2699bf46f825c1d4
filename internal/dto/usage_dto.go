// FILE: internal/dto/usage_dto.go
// DTOs for word quota checks and the usage summary
package dto

import (
	"time"

	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
)

const (
	ReasonAnonymousCap    = "anonymous word cap exceeded"
	ReasonUpgradeRequired = "upgrade required"
	ReasonLimitReached    = "monthly word limit reached"
)

// QuotaDecision is the outcome of a gate check. A denial is a normal value, not an error.
type QuotaDecision struct {
	Allowed      bool        `json:"allowed"`
	Reason       string      `json:"reason,omitempty"`
	Remaining    *int        `json:"remaining,omitempty"` // nil when the plan is unbounded
	LimitReached bool        `json:"limitReached,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
	RequiredPlan entity.Plan `json:"requiredPlan,omitempty"`
}

func Allow(remaining *int) *QuotaDecision {
	return &QuotaDecision{Allowed: true, Remaining: remaining}
}

// Err converts a denial into the matching policy error. It returns nil when allowed.
func (d *QuotaDecision) Err() error {
	if d == nil || d.Allowed {
		return nil
	}
	remaining := 0
	if d.Remaining != nil {
		remaining = *d.Remaining
	}
	switch {
	case d.RequiresAuth:
		return &apperror.AuthRequiredError{Reason: d.Reason, Remaining: remaining}
	case d.RequiredPlan != "":
		return &apperror.UpgradeRequiredError{Reason: d.Reason, RequiredPlan: string(d.RequiredPlan)}
	default:
		return &apperror.QuotaExceededError{Reason: d.Reason, Remaining: remaining}
	}
}

// UsageSummaryResponse is returned by GET /api/user/usage.
// Limit and Remaining are null for unbounded plans.
type UsageSummaryResponse struct {
	Plan        entity.Plan `json:"plan"`
	Used        int         `json:"used"`
	Limit       *int        `json:"limit"`
	Remaining   *int        `json:"remaining"`
	Unbounded   bool        `json:"unbounded"`
	Percentage  float64     `json:"percentage"`
	PeriodStart time.Time   `json:"periodStart"`
	ResetsAt    time.Time   `json:"resetsAt"`
}
