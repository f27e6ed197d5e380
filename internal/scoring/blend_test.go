package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/akorchak/privascope/internal/model"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBlendAllNeutral(t *testing.T) {
	result := Blend(nil, nil, nil, nil, DefaultWeights())

	// Neutral judgment 0.5, no heuristics, no evidence:
	// 0.50*0.5 + 0.20*0.5 = 0.35 per category, trust 35.0.
	for _, cat := range model.Categories() {
		cr := result.Categories[cat]
		if !almost(cr.Score, 0.35) {
			t.Errorf("category %q score = %v, want 0.35", cat, cr.Score)
		}
		if cr.EvidenceProb != nil {
			t.Errorf("category %q: evidence prob set without evidence", cat)
		}
		if cr.Reason != "" {
			t.Errorf("category %q: reason = %q, want empty", cat, cr.Reason)
		}
	}
	if result.TrustScore != 35.0 {
		t.Errorf("trust score = %v, want 35.0", result.TrustScore)
	}
	if result.RiskLevel != RiskHigh {
		t.Errorf("risk = %q, want High", result.RiskLevel)
	}
}

func TestBlendSinglePenalty(t *testing.T) {
	// One -0.35 heuristic delta on Third-Party, everything else
	// neutral: llm 0.5, llm+heur clamps to 0.15,
	// 0.50*0.5 + 0.20*0.15 = 0.28.
	heur := map[model.Category]*model.HeuristicResult{
		model.CatThirdParty: {
			Delta: -0.35,
			Flags: []string{"Mentions selling/monetizing or broker relationship"},
		},
	}

	result := Blend(heur, nil, nil, nil, DefaultWeights())

	cr := result.Categories[model.CatThirdParty]
	if !almost(cr.Score, 0.28) {
		t.Errorf("third-party score = %v, want 0.28", cr.Score)
	}
	if !strings.HasPrefix(cr.Reason, "Signals detected: ") {
		t.Errorf("reason = %q, want flag synthesis", cr.Reason)
	}

	// Trust: seven categories at 0.35, third-party (weight 0.20) at
	// 0.28: 35.0 - 100*0.20*0.07 = 33.6.
	if result.TrustScore != 33.6 {
		t.Errorf("trust score = %v, want 33.6", result.TrustScore)
	}
}

func TestBlendHeavyPenaltyClampsInnerTerm(t *testing.T) {
	// Delta -0.70 pushes llm+heur to clamp at 0: only the 0.50 term
	// survives, 0.50*0.5 = 0.25.
	heur := map[model.Category]*model.HeuristicResult{
		model.CatThirdParty: {Delta: -0.70},
	}

	result := Blend(heur, nil, nil, nil, DefaultWeights())
	if got := result.Categories[model.CatThirdParty].Score; !almost(got, 0.25) {
		t.Errorf("score = %v, want 0.25", got)
	}
}

func TestBlendWithJudgmentAndEvidence(t *testing.T) {
	judgments := map[model.Category]model.Judgment{
		model.CatSecurity: {Score: 0.9, Reason: "Strong encryption and audited controls."},
	}
	evConf := map[model.Category]float64{
		model.CatSecurity: 0.7,
	}

	result := Blend(nil, judgments, evConf, nil, DefaultWeights())

	cr := result.Categories[model.CatSecurity]
	// 0.50*0.9 + 0.20*0.9 + 0.30*0.7 = 0.84.
	if !almost(cr.Score, 0.84) {
		t.Errorf("score = %v, want 0.84", cr.Score)
	}
	if cr.Reason != "Strong encryption and audited controls." {
		t.Errorf("reason = %q, judgment reason should win", cr.Reason)
	}
	if cr.EvidenceProb == nil || !almost(*cr.EvidenceProb, 0.7) {
		t.Errorf("evidence prob = %v, want 0.7", cr.EvidenceProb)
	}
}

func TestAbsentEvidenceDiffersFromZero(t *testing.T) {
	judgments := map[model.Category]model.Judgment{
		model.CatSecurity: {Score: 0.8},
	}

	withZero := Blend(nil, judgments, map[model.Category]float64{model.CatSecurity: 0}, nil, DefaultWeights())
	without := Blend(nil, judgments, nil, nil, DefaultWeights())

	zeroScore := withZero.Categories[model.CatSecurity].Score
	absentScore := without.Categories[model.CatSecurity].Score

	// Identical numeric score either way: 0.50*0.8 + 0.20*0.8 = 0.56
	// plus 0.30*0 for the zero case.
	if !almost(zeroScore, absentScore) {
		t.Errorf("scores diverged: zero=%v absent=%v", zeroScore, absentScore)
	}

	// The distinction is the reported probability: present (and zero)
	// versus not reported at all.
	if withZero.Categories[model.CatSecurity].EvidenceProb == nil {
		t.Error("zero confidence should still be reported")
	}
	if without.Categories[model.CatSecurity].EvidenceProb != nil {
		t.Error("absent confidence must not be reported as zero")
	}
}

func TestBlendJudgmentClamped(t *testing.T) {
	judgments := map[model.Category]model.Judgment{
		model.CatPurpose: {Score: 4.2},
	}
	result := Blend(nil, judgments, nil, nil, DefaultWeights())

	// Clamps to 1: 0.50*1 + 0.20*1 = 0.70.
	if got := result.Categories[model.CatPurpose].Score; !almost(got, 0.70) {
		t.Errorf("score = %v, want 0.70", got)
	}
}

func TestBlendPenaltiesApplyAfterBlend(t *testing.T) {
	judgments := map[model.Category]model.Judgment{
		model.CatThirdParty: {Score: 0.6},
	}
	penalties := map[model.Category]float64{
		model.CatThirdParty: -0.20, // two stacked conflicts
	}

	result := Blend(nil, judgments, nil, penalties, DefaultWeights())

	// 0.50*0.6 + 0.20*0.6 = 0.42, minus 0.20 = 0.22.
	if got := result.Categories[model.CatThirdParty].Score; !almost(got, 0.22) {
		t.Errorf("score = %v, want 0.22", got)
	}
}

func TestBlendPenaltyFloorsAtZero(t *testing.T) {
	penalties := map[model.Category]float64{
		model.CatThirdParty: -0.80,
	}
	result := Blend(nil, nil, nil, penalties, DefaultWeights())
	if got := result.Categories[model.CatThirdParty].Score; got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
}

func TestReasonFor(t *testing.T) {
	cases := []struct {
		name   string
		reason string
		flags  []string
		want   string
	}{
		{"judgment wins", "Clear rights section.", []string{"f1"}, "Clear rights section."},
		{"flags synthesized", "", []string{"a", "b"}, "Signals detected: a, b"},
		{"flags capped at three", "", []string{"a", "b", "c", "d"}, "Signals detected: a, b, c"},
		{"nothing", "", nil, ""},
		{"whitespace reason ignored", "  ", []string{"a"}, "Signals detected: a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reasonFor(tc.reason, tc.flags); got != tc.want {
				t.Errorf("reasonFor() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrustScoreRounding(t *testing.T) {
	judgments := make(map[model.Category]model.Judgment)
	for _, cat := range model.Categories() {
		judgments[cat] = model.Judgment{Score: 0.333}
	}
	result := Blend(nil, judgments, nil, nil, DefaultWeights())

	// Per category 0.70*0.333 = 0.2331, trust 23.31 rounds to 23.3.
	if result.TrustScore != 23.3 {
		t.Errorf("trust score = %v, want 23.3", result.TrustScore)
	}
}
