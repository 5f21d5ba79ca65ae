// Package assumptions tracks the defaults, derivations and caps applied
// while building one proposal. A nil *Tracker discards everything.
package assumptions

import (
	"fmt"

	"solar-proposal/core/types"
)

// Stage names used as assumption keys
const (
	StageConsumption = "consumption"
	StageDesign      = "design"
	StageProduction  = "production"
	StageFinance     = "finance"
	StageEnvironment = "environment"
	StageEngine      = "engine"
)

// Tracker records assumptions in the order they are made.
// Not safe for concurrent use; create one per proposal.
type Tracker struct {
	assumptions []types.Assumption
	byStage     map[string][]int
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		byStage: make(map[string][]int),
	}
}

func (t *Tracker) record(stage string, source types.AssumptionSource, format string, args ...interface{}) {
	if t == nil {
		return
	}
	t.byStage[stage] = append(t.byStage[stage], len(t.assumptions))
	t.assumptions = append(t.assumptions, types.Assumption{
		Stage:       stage,
		Source:      source,
		Description: fmt.Sprintf(format, args...),
	})
}

// RecordDefault records a configured constant
func (t *Tracker) RecordDefault(stage, format string, args ...interface{}) {
	t.record(stage, types.AssumptionDefault, format, args...)
}

// RecordDerived records a value computed from other inputs
func (t *Tracker) RecordDerived(stage, format string, args ...interface{}) {
	t.record(stage, types.AssumptionDerived, format, args...)
}

// RecordLimit records a cap that changed the result
func (t *Tracker) RecordLimit(stage, format string, args ...interface{}) {
	t.record(stage, types.AssumptionLimit, format, args...)
}

// RecordOverride records an operator override
func (t *Tracker) RecordOverride(stage, format string, args ...interface{}) {
	t.record(stage, types.AssumptionOverride, format, args...)
}

// All returns a copy of every assumption in record order
func (t *Tracker) All() []types.Assumption {
	if t == nil {
		return nil
	}
	return append([]types.Assumption(nil), t.assumptions...)
}

// ForStage returns the assumptions of one stage
func (t *Tracker) ForStage(stage string) []types.Assumption {
	if t == nil {
		return nil
	}
	var out []types.Assumption
	for _, i := range t.byStage[stage] {
		out = append(out, t.assumptions[i])
	}
	return out
}

// Count returns the number of assumptions
func (t *Tracker) Count() int {
	if t == nil {
		return 0
	}
	return len(t.assumptions)
}
