// Package scoring blends per-category signals (pattern detection
// deltas, semantic judgments, evidence confidences, preference
// penalties) into bounded category scores and one aggregate trust
// score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/akorchak/privascope/internal/model"
)

// Blend weights across the three sources. The judgment carries most
// signal; the pattern delta nudges; evidence confidence corroborates.
const (
	alphaJudge     = 0.50
	betaHeuristics = 0.20
	gammaEvidence  = 0.30
)

// neutralScore substitutes for an absent or unparsable judgment.
// Never default to 0 or 1: a failed upstream source must not tank or
// inflate a category.
const neutralScore = 0.5

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Blend combines per-category signals into category scores and the
// aggregate trust score with a risk label.
//
// Any of heuristics, judgments, evidenceConf, and penalties may be nil
// or partial: a missing judgment scores neutral, a missing heuristic
// delta is zero. A category absent from evidenceConf means "no
// corroborating source", which is not the same as a confidence of
// zero: when confidence is absent the blend keeps only the 0.50/0.20
// terms without renormalizing, so an uncorroborated category scores
// lower on average than a corroborated one. Do not "fix" this by
// renormalizing; callers depend on absent != 0.
func Blend(
	heuristics map[model.Category]*model.HeuristicResult,
	judgments map[model.Category]model.Judgment,
	evidenceConf map[model.Category]float64,
	penalties map[model.Category]float64,
	weights Weights,
) *model.Analysis {
	perCat := make(map[model.Category]*model.CategoryResult, len(model.Categories()))

	for _, cat := range model.Categories() {
		judgment, hasJudgment := judgments[cat]

		llmScore := neutralScore
		if hasJudgment {
			llmScore = clamp01(judgment.Score)
		}

		var heurDelta float64
		var flags []string
		if h := heuristics[cat]; h != nil {
			heurDelta = h.Delta
			flags = h.Flags
		}

		llmPlusHeur := clamp01(llmScore + heurDelta)

		blended := alphaJudge*llmScore + betaHeuristics*llmPlusHeur
		var evProb *float64
		if conf, ok := evidenceConf[cat]; ok {
			c := clamp01(conf)
			blended += gammaEvidence * c
			evProb = &c
		}
		blended = clamp01(blended)

		final := clamp01(blended + penalties[cat])

		perCat[cat] = &model.CategoryResult{
			Score:        final,
			Reason:       reasonFor(judgment.Reason, flags),
			Heuristics:   model.HeuristicDetail{Delta: heurDelta, Flags: flags},
			EvidenceProb: evProb,
		}
	}

	trust := 0.0
	for _, cat := range model.Categories() {
		trust += 100.0 * weights[cat] * perCat[cat].Score
	}
	trust = round1(trust)

	return &model.Analysis{
		TrustScore: trust,
		RiskLevel:  RiskLabel(trust),
		Categories: perCat,
	}
}

// reasonFor prefers the judgment's reason; with none, it synthesizes
// a short phrase from the first heuristic flags; with neither, empty.
func reasonFor(judgmentReason string, flags []string) string {
	if r := strings.TrimSpace(judgmentReason); r != "" {
		return r
	}
	if len(flags) > 0 {
		sample := flags
		if len(sample) > 3 {
			sample = sample[:3]
		}
		return fmt.Sprintf("Signals detected: %s", strings.Join(sample, ", "))
	}
	return ""
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
