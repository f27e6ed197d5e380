package conflicts

import (
	"strings"
	"testing"

	"github.com/akorchak/privascope/internal/model"
)

func snippet(text string, score float64) model.Snippet {
	return model.Snippet{Text: text, Score: score}
}

func TestDetectKeywordMatch(t *testing.T) {
	evidence := map[model.Category][]model.Snippet{
		model.CatThirdParty: {
			snippet("We may sell your personal information to data brokers.", 0.7),
		},
	}
	prefs := map[string]bool{"no_sale_or_sharing": true}

	out := Detect(prefs, nil, evidence)
	if len(out) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(out))
	}

	c := out[0]
	if c.Preference != "no_sale_or_sharing" {
		t.Errorf("preference = %q", c.Preference)
	}
	if c.Category != model.CatThirdParty {
		t.Errorf("category = %q", c.Category)
	}
	if c.Evidence == nil || c.Evidence.Text != evidence[model.CatThirdParty][0].Text {
		t.Errorf("evidence = %+v", c.Evidence)
	}
	if !strings.Contains(c.Message, "selling or sharing") {
		t.Errorf("message = %q", c.Message)
	}
	if !strings.Contains(c.Message, "Example:") {
		t.Errorf("message missing quoted example: %q", c.Message)
	}
}

func TestDetectDisabledPreferenceSkipped(t *testing.T) {
	evidence := map[model.Category][]model.Snippet{
		model.CatThirdParty: {snippet("We sell data.", 0.9)},
	}
	out := Detect(map[string]bool{"no_sale_or_sharing": false}, nil, evidence)
	if len(out) != 0 {
		t.Errorf("disabled preference produced conflicts: %+v", out)
	}
}

func TestDetectAtMostOnePerPreference(t *testing.T) {
	evidence := map[model.Category][]model.Snippet{
		model.CatThirdParty: {
			snippet("We sell data to broker A.", 0.9),
			snippet("We also sell data to broker B.", 0.8),
		},
	}
	out := Detect(map[string]bool{"no_sale_or_sharing": true}, nil, evidence)
	if len(out) != 1 {
		t.Errorf("got %d conflicts, want 1", len(out))
	}
}

func TestDetectKeywordScansAllCategoriesBeforeFallback(t *testing.T) {
	// protect_location's first category has low-score fallback bait,
	// but its second category holds a keyword hit. The keyword match
	// must win even though it sits in a later category.
	evidence := map[model.Category][]model.Snippet{
		model.CatChildren: {
			snippet("Our policy mentions nothing relevant.", 0.4),
		},
		model.CatDataCollection: {
			snippet("We collect precise location continuously.", 0.6),
		},
	}
	scores := map[model.Category]float64{
		model.CatChildren:       0.2, // below threshold with evidence
		model.CatDataCollection: 0.8,
	}

	out := Detect(map[string]bool{"protect_location": true}, scores, evidence)
	if len(out) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(out))
	}
	if out[0].Category != model.CatDataCollection {
		t.Errorf("category = %q, keyword match should beat the fallback", out[0].Category)
	}
}

func TestDetectLowScoreFallback(t *testing.T) {
	evidence := map[model.Category][]model.Snippet{
		model.CatSecurity: {
			snippet("Our practices are described elsewhere.", 0.3),
		},
	}

	t.Run("fires at or below threshold", func(t *testing.T) {
		scores := map[model.Category]float64{model.CatSecurity: 0.35}
		out := Detect(map[string]bool{"strong_security": true}, scores, evidence)
		if len(out) != 1 {
			t.Fatalf("got %d conflicts, want 1", len(out))
		}
		if out[0].Evidence == nil || out[0].Evidence.Text != evidence[model.CatSecurity][0].Text {
			t.Errorf("fallback should cite the top snippet: %+v", out[0].Evidence)
		}
	})

	t.Run("silent above threshold", func(t *testing.T) {
		scores := map[model.Category]float64{model.CatSecurity: 0.36}
		out := Detect(map[string]bool{"strong_security": true}, scores, evidence)
		if len(out) != 0 {
			t.Errorf("got %d conflicts, want 0", len(out))
		}
	})

	t.Run("silent without scores", func(t *testing.T) {
		out := Detect(map[string]bool{"strong_security": true}, nil, evidence)
		if len(out) != 0 {
			t.Errorf("pass 1 without scores fired the fallback: %+v", out)
		}
	})

	t.Run("silent without evidence", func(t *testing.T) {
		scores := map[model.Category]float64{model.CatSecurity: 0.1}
		out := Detect(map[string]bool{"strong_security": true}, scores, nil)
		if len(out) != 0 {
			t.Errorf("fallback fired with no snippets: %+v", out)
		}
	})
}

func TestDetectSchemaOrder(t *testing.T) {
	evidence := map[model.Category][]model.Snippet{
		model.CatThirdParty: {snippet("We sell data and use targeted ads.", 0.9)},
		model.CatRetention:  {snippet("We retain indefinitely, as long as necessary.", 0.8)},
		model.CatChildren:   {snippet("We process children and biometric data.", 0.7)},
	}
	prefs := map[string]bool{
		"short_retention":    true,
		"child_privacy":      true,
		"no_sale_or_sharing": true,
	}

	out := Detect(prefs, nil, evidence)
	if len(out) != 3 {
		t.Fatalf("got %d conflicts, want 3", len(out))
	}

	want := []string{"no_sale_or_sharing", "short_retention", "child_privacy"}
	for i, key := range want {
		if out[i].Preference != key {
			t.Errorf("conflict %d = %q, want %q", i, out[i].Preference, key)
		}
	}
}

func TestDetectCaseInsensitiveKeywords(t *testing.T) {
	evidence := map[model.Category][]model.Snippet{
		model.CatThirdParty: {snippet("WE SELL YOUR DATA.", 0.9)},
	}
	out := Detect(map[string]bool{"no_sale_or_sharing": true}, nil, evidence)
	if len(out) != 1 {
		t.Errorf("uppercase snippet should still match keywords")
	}
}
