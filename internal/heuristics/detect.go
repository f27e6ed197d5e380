package heuristics

import (
	"fmt"

	"github.com/akorchak/privascope/internal/model"
)

// RuleSet is an ordered collection of pattern rules, loaded once at
// startup and shared read-only across requests.
type RuleSet struct {
	rules []Rule
}

// Default returns a rule set with the builtin rule table.
func Default() *RuleSet {
	return &RuleSet{rules: builtinRules}
}

// Rules returns the rules in application order.
// Callers must not mutate the returned slice.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// Len returns the number of active rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// maxEffectiveHits caps how many matches of one rule still add signal.
const maxEffectiveHits = 3

// effectiveCount applies diminishing returns to a raw hit count:
// the first match counts fully, the second and third at half weight,
// anything beyond the third adds nothing.
func effectiveCount(n int) float64 {
	if n > maxEffectiveHits {
		n = maxEffectiveHits
	}
	return 1.0 + 0.5*float64(n-1)
}

func clampDelta(x float64) float64 {
	if x < -1.0 {
		return -1.0
	}
	if x > 1.0 {
		return 1.0
	}
	return x
}

// Detect scans text against every rule and aggregates per-category
// deltas, fired flags, and raw hit counts. Pure function of the text
// and the rule set: no matches is a normal zero result, not a failure.
//
// The category delta is clamped to [-1,1] after every rule application,
// not only at the end. Rule order therefore cannot change whether a
// category saturates, only the path it takes, and the order is fixed.
func (rs *RuleSet) Detect(text string) map[model.Category]*model.HeuristicResult {
	out := make(map[model.Category]*model.HeuristicResult, len(model.Categories()))
	for _, cat := range model.Categories() {
		out[cat] = &model.HeuristicResult{Hits: make(map[string]int)}
	}

	for _, rule := range rs.rules {
		n := len(rule.Pattern.FindAllStringIndex(text, -1))
		if n <= 0 {
			continue
		}

		res := out[rule.Category]
		res.Delta = clampDelta(res.Delta + rule.Delta*effectiveCount(n))
		res.Hits[rule.ID] = n

		flag := rule.Flag
		if n > 1 {
			flag = fmt.Sprintf("%s (x%d)", rule.Flag, n)
		}
		res.Flags = append(res.Flags, flag)
	}

	return out
}
