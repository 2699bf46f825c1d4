// FILE: internal/entity/plan_entity.go
package entity

import "strings"

type Plan string

const (
	PlanFree  Plan = "free"
	PlanPro   Plan = "pro"
	PlanUltra Plan = "ultra"
)

// AnonymousWordCap is the largest request an unauthenticated caller may submit.
const AnonymousWordCap = 200

// ParsePlan normalizes a stored or user-supplied plan name.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanFree:
		return PlanFree, true
	case PlanPro:
		return PlanPro, true
	case PlanUltra:
		return PlanUltra, true
	}
	return "", false
}

// PlanOrFree falls back to the free plan for empty or unknown values.
func PlanOrFree(s string) Plan {
	if p, ok := ParsePlan(s); ok {
		return p
	}
	return PlanFree
}

func (p Plan) rank() int {
	switch p {
	case PlanPro:
		return 1
	case PlanUltra:
		return 2
	default:
		return 0
	}
}

// Covers reports whether a subscriber on p may use features of required.
func (p Plan) Covers(required Plan) bool {
	return p.rank() >= required.rank()
}

// IsPaid reports whether the plan can be bought through checkout.
func (p Plan) IsPaid() bool {
	return p == PlanPro || p == PlanUltra
}

// Limit is a monthly word allowance. The unbounded value never takes part in arithmetic.
type Limit struct {
	unbounded bool
	words     int
}

func Bounded(words int) Limit {
	return Limit{words: words}
}

func Unbounded() Limit {
	return Limit{unbounded: true}
}

func (l Limit) IsUnbounded() bool {
	return l.unbounded
}

// Words returns the bounded allowance; ok is false when unbounded.
func (l Limit) Words() (words int, ok bool) {
	if l.unbounded {
		return 0, false
	}
	return l.words, true
}

// Allows reports whether used+requested stays within the limit.
func (l Limit) Allows(used, requested int) bool {
	if l.unbounded {
		return true
	}
	return used+requested <= l.words
}

// Remaining is max(0, limit-used); ok is false when unbounded.
func (l Limit) Remaining(used int) (remaining int, ok bool) {
	if l.unbounded {
		return 0, false
	}
	if used >= l.words {
		return 0, true
	}
	return l.words - used, true
}

var planLimits = map[Plan]Limit{
	PlanFree:  Bounded(5000),
	PlanPro:   Bounded(50000),
	PlanUltra: Unbounded(),
}

// LimitFor returns the monthly word limit of a plan; unknown plans get the free limit.
func LimitFor(p Plan) Limit {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// Prices are fixed server side in the smallest currency unit.
const PlanCurrency = "USD"

var planPrices = map[Plan]int64{
	PlanPro:   500,
	PlanUltra: 1000,
}

// PriceFor returns the checkout amount in cents for a paid plan.
func PriceFor(p Plan) (int64, bool) {
	amount, ok := planPrices[p]
	return amount, ok
}

// Level is the humanization tier requested by a caller.
type Level string

const (
	LevelLite  Level = "lite"
	LevelPro   Level = "pro"
	LevelUltra Level = "ultra"
)

// ParseLevel accepts lite/pro/ultra; an empty level means lite.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelLite:
		return LevelLite, true
	case LevelPro:
		return LevelPro, true
	case LevelUltra:
		return LevelUltra, true
	}
	return "", false
}

// RequiredPlan is the lowest plan allowed to use the level.
func (l Level) RequiredPlan() Plan {
	switch l {
	case LevelPro:
		return PlanPro
	case LevelUltra:
		return PlanUltra
	default:
		return PlanFree
	}
}
