package judge

import (
	"strings"
	"testing"

	"github.com/akorchak/privascope/internal/model"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounded by prose", `Here you go: {"a": 1} hope that helps`, `{"a": 1}`},
		{"nested", `{"a": {"b": [1, 2]}}`, `{"a": {"b": [1, 2]}}`},
		{"array", `[1, 2]`, `[1, 2]`},
		{"no json", `nothing here`, ``},
		{"unbalanced", `{"a": 1`, ``},
		{"mismatched brackets", `{"a": 1]`, ``},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseJudgmentsComplete(t *testing.T) {
	raw := `{
		"Security Practices": {"score": 0.8, "reason": "Encryption stated."},
		"Third-Party Sharing/Selling": {"score": 0.2, "reason": "Sells data."}
	}`
	out := parseJudgments(raw)

	if len(out) != len(model.Categories()) {
		t.Fatalf("got %d categories, want %d", len(out), len(model.Categories()))
	}
	if j := out[model.CatSecurity]; j.Score != 0.8 || j.Reason != "Encryption stated." {
		t.Errorf("security = %+v", j)
	}
	if j := out[model.CatThirdParty]; j.Score != 0.2 {
		t.Errorf("third-party = %+v", j)
	}
	// Categories absent from the payload score neutral.
	if j := out[model.CatRetention]; j.Score != 0.5 || j.Reason != "" {
		t.Errorf("retention = %+v, want neutral", j)
	}
}

func TestParseJudgmentsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"broken":`} {
		out := parseJudgments(raw)
		for _, cat := range model.Categories() {
			if out[cat].Score != 0.5 {
				t.Errorf("raw %q: category %q score = %v, want 0.5", raw, cat, out[cat].Score)
			}
		}
	}
}

func TestParseJudgmentsClampsAndTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	raw := `{"Security Practices": {"score": 7.5, "reason": "` + long + `"}}`
	out := parseJudgments(raw)

	j := out[model.CatSecurity]
	if j.Score != 1.0 {
		t.Errorf("score = %v, want clamp to 1", j.Score)
	}
	if len([]rune(j.Reason)) != maxReasonLen {
		t.Errorf("reason length = %d, want %d", len([]rune(j.Reason)), maxReasonLen)
	}
}

func TestParseJudgmentsWrongTypes(t *testing.T) {
	raw := `{"Security Practices": {"score": "high", "reason": 42}}`
	out := parseJudgments(raw)

	if j := out[model.CatSecurity]; j.Score != 0.5 || j.Reason != "" {
		t.Errorf("got %+v, want neutral defaults", j)
	}
}

func TestParseOverviewComplete(t *testing.T) {
	raw := "```json\n" + `{
		"overall_rating": 72,
		"risk_level": "Low",
		"summary": "Clear and limited.",
		"strengths": ["explicit rights"],
		"risks": [{"issue": "broad sharing", "severity": "medium"}],
		"missing_disclosures": ["retention table"],
		"action_items": ["use the opt-out"]
	}` + "\n```"

	out := parseOverview(raw)
	if out.OverallRating != 72 || out.RiskLevel != "Low" {
		t.Errorf("rating/risk = %d/%q", out.OverallRating, out.RiskLevel)
	}
	if out.Summary != "Clear and limited." {
		t.Errorf("summary = %q", out.Summary)
	}
	if len(out.Strengths) != 1 || len(out.Risks) != 1 || len(out.MissingDisclosures) != 1 || len(out.ActionItems) != 1 {
		t.Errorf("lists not preserved: %+v", out)
	}
}

func TestParseOverviewDefaults(t *testing.T) {
	out := parseOverview("no json here")
	if out.OverallRating != 50 || out.RiskLevel != "Medium" {
		t.Errorf("defaults = %d/%q, want 50/Medium", out.OverallRating, out.RiskLevel)
	}
	if out.Summary != "No concise summary produced." {
		t.Errorf("summary = %q", out.Summary)
	}
}

func TestParseOverviewSanitizes(t *testing.T) {
	out := parseOverview(`{"overall_rating": 180, "risk_level": "Catastrophic", "summary": "  "}`)
	if out.OverallRating != 100 {
		t.Errorf("rating = %d, want clamp to 100", out.OverallRating)
	}
	if out.RiskLevel != "Medium" {
		t.Errorf("risk = %q, unknown levels keep the default", out.RiskLevel)
	}
	if out.Summary != "No concise summary produced." {
		t.Errorf("blank summary replaced: %q", out.Summary)
	}

	out = parseOverview(`{"overall_rating": -5}`)
	if out.OverallRating != 0 {
		t.Errorf("rating = %d, want clamp to 0", out.OverallRating)
	}
}
