// Package conflicts maps enabled user preferences onto evidence from
// the analyzed text and reports concrete contradictions.
package conflicts

import (
	"fmt"
	"strings"

	"github.com/akorchak/privascope/internal/model"
	"github.com/akorchak/privascope/internal/prefs"
)

// signalSpec names which categories and keywords can contradict one
// preference. Categories are scanned in the listed order.
type signalSpec struct {
	categories []model.Category
	keywords   []string
}

var prefSignals = map[string]signalSpec{
	"protect_location": {
		categories: []model.Category{model.CatChildren, model.CatDataCollection},
		keywords:   []string{"precise location", "geolocation", "gps", "location data"},
	},
	"opt_out_targeted_ads": {
		categories: []model.Category{model.CatUserControl, model.CatThirdParty},
		keywords:   []string{"behavioral advertising", "targeted ads", "adtech", "cross-site tracking"},
	},
	"no_sale_or_sharing": {
		categories: []model.Category{model.CatThirdParty},
		keywords:   []string{"sell", "sale", "data broker", "share with third"},
	},
	"limit_data_collection": {
		categories: []model.Category{model.CatDataCollection, model.CatPurpose},
		keywords:   []string{"categories of information", "collect", "legitimate interests", "compatible further processing"},
	},
	"short_retention": {
		categories: []model.Category{model.CatRetention},
		keywords:   []string{"retain indefinitely", "as long as necessary", "retention period"},
	},
	"restrict_cross_border": {
		categories: []model.Category{model.CatTransfers},
		keywords:   []string{"international transfers", "cross-border", "standard contractual clauses", "adequacy decision"},
	},
	"strong_security": {
		categories: []model.Category{model.CatSecurity},
		keywords:   []string{"encryption", "tls", "access controls", "breach notification", "iso 27001", "soc 2"},
	},
	"child_privacy": {
		categories: []model.Category{model.CatChildren},
		keywords:   []string{"coppa", "children", "minor", "biometric", "health data", "sensitive categories"},
	},
}

var messages = map[string]string{
	"protect_location":      "This app references collecting or sharing precise location, which conflicts with your preference to keep location private.",
	"opt_out_targeted_ads":  "This policy mentions behavioral/targeted advertising; you prefer to opt out of that.",
	"no_sale_or_sharing":    "We found language about selling or sharing personal data; you opted to avoid sale/sharing.",
	"limit_data_collection": "They describe broad collection or vague purposes; you prefer limiting data collection.",
	"short_retention":       "They imply long/indefinite retention; you prefer short retention periods.",
	"restrict_cross_border": "Cross-border transfers are mentioned; you prefer restricting transfers without strong safeguards.",
	"strong_security":       "Security language appears weak or absent; you prefer strong security practices.",
	"child_privacy":         "Children/sensitive data handling may be insufficient; you prefer stricter protection.",
}

const genericMessage = "This seems to conflict with your stated preference."

// lowScoreThreshold triggers the no-keyword fallback: a category that
// scores at or below this and still has evidence counts as a conflict
// even without an exact keyword hit.
const lowScoreThreshold = 0.35

// Detect returns at most one conflict per enabled preference, in
// schema order. A preference's categories are scanned in order for
// the first ranked snippet containing any of its keywords
// (case-insensitive substring). Only when no keyword matches in any
// category does the low-score fallback apply, again in category
// order, citing the top-ranked snippet.
//
// scores may be nil or empty: the detector runs once before final
// scores exist (to derive penalties) and once after. With no score
// for a category the fallback simply never fires there.
func Detect(
	preferences map[string]bool,
	scores map[model.Category]float64,
	evidence map[model.Category][]model.Snippet,
) []model.Conflict {
	var out []model.Conflict

	for _, key := range prefs.Keys() {
		if !preferences[key] {
			continue
		}
		spec, ok := prefSignals[key]
		if !ok {
			continue
		}

		cat, snippet := matchKeywords(spec, evidence)
		if snippet == nil {
			cat, snippet = matchLowScore(spec, scores, evidence)
		}
		if snippet == nil {
			continue
		}

		out = append(out, model.Conflict{
			Preference: key,
			Category:   cat,
			Message:    renderMessage(key, snippet),
			Evidence:   snippet,
		})
	}

	return out
}

// matchKeywords finds the first snippet, scanning the spec's
// categories in order and each category's snippets in ranked order,
// whose text contains one of the spec's keywords.
func matchKeywords(spec signalSpec, evidence map[model.Category][]model.Snippet) (model.Category, *model.Snippet) {
	for _, cat := range spec.categories {
		for i := range evidence[cat] {
			snippet := &evidence[cat][i]
			if containsAny(snippet.Text, spec.keywords) {
				return cat, snippet
			}
		}
	}
	return "", nil
}

// matchLowScore is the fallback for "policy is just weak here": the
// first spec category whose current score is at or below the
// threshold and which has at least one snippet, citing the top one.
func matchLowScore(spec signalSpec, scores map[model.Category]float64, evidence map[model.Category][]model.Snippet) (model.Category, *model.Snippet) {
	for _, cat := range spec.categories {
		score, ok := scores[cat]
		if !ok || score > lowScoreThreshold {
			continue
		}
		if snippets := evidence[cat]; len(snippets) > 0 {
			return cat, &snippets[0]
		}
	}
	return "", nil
}

func containsAny(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func renderMessage(key string, snippet *model.Snippet) string {
	base, ok := messages[key]
	if !ok {
		base = genericMessage
	}
	return fmt.Sprintf("%s Example: “%s”", base, snippet.Text)
}
