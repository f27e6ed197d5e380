package judge

import (
	"encoding/json"
	"strings"

	"github.com/akorchak/privascope/internal/model"
)

// extractJSON returns the first JSON object or array embedded in s,
// using naive bracket matching after stripping markdown fences. An
// empty string means no candidate was found. The caller still has to
// unmarshal the result, so a false positive only yields defaults.
func extractJSON(s string) string {
	s = cleanFences(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}

	var stack []byte
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			stack = append(stack, s[i])
		case '}', ']':
			if len(stack) == 0 {
				return ""
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if (open == '{' && s[i] != '}') || (open == '[' && s[i] != ']') {
				return ""
			}
			if len(stack) == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// cleanFences strips markdown code fences and surrounding whitespace.
func cleanFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseJudgments converts raw model output into a complete judgment
// map. Every category is present: absent or malformed entries score
// a neutral 0.5 with an empty reason.
func parseJudgments(raw string) map[model.Category]model.Judgment {
	var data map[string]map[string]any
	if candidate := extractJSON(raw); candidate != "" {
		// Ignore unmarshal errors: data stays nil and defaults apply.
		_ = json.Unmarshal([]byte(candidate), &data)
	}

	out := make(map[model.Category]model.Judgment, len(model.Categories()))
	for _, cat := range model.Categories() {
		judgment := model.Judgment{Score: 0.5}

		if entry, ok := data[string(cat)]; ok {
			if score, ok := entry["score"].(float64); ok {
				judgment.Score = clampScore(score)
			}
			if reason, ok := entry["reason"].(string); ok {
				judgment.Reason = truncateRunes(reason, maxReasonLen)
			}
		}

		out[cat] = judgment
	}

	return out
}

// parseOverview converts raw model output into an Overview, filling
// conservative defaults for anything missing or malformed.
func parseOverview(raw string) *model.Overview {
	out := &model.Overview{
		OverallRating: 50,
		RiskLevel:     "Medium",
		Summary:       "No concise summary produced.",
	}

	candidate := extractJSON(raw)
	if candidate == "" {
		return out
	}

	var parsed struct {
		OverallRating      *int             `json:"overall_rating"`
		RiskLevel          string           `json:"risk_level"`
		Summary            string           `json:"summary"`
		Strengths          []string         `json:"strengths"`
		Risks              []model.RiskItem `json:"risks"`
		MissingDisclosures []string         `json:"missing_disclosures"`
		ActionItems        []string         `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return out
	}

	if parsed.OverallRating != nil {
		rating := *parsed.OverallRating
		if rating < 0 {
			rating = 0
		}
		if rating > 100 {
			rating = 100
		}
		out.OverallRating = rating
	}
	switch parsed.RiskLevel {
	case "High", "Medium", "Low":
		out.RiskLevel = parsed.RiskLevel
	}
	if strings.TrimSpace(parsed.Summary) != "" {
		out.Summary = parsed.Summary
	}
	out.Strengths = parsed.Strengths
	out.Risks = parsed.Risks
	out.MissingDisclosures = parsed.MissingDisclosures
	out.ActionItems = parsed.ActionItems

	return out
}

func clampScore(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
