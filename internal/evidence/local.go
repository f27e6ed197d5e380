package evidence

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/akorchak/privascope/internal/model"
)

// Local is the built-in sentence-evidence extractor: per-category
// phrase lists matched against each sentence, with the match density
// converted to a confidence score. Used when no remote extractor is
// configured. Stateless and safe for concurrent use.
type Local struct{}

// NewLocal returns the built-in extractor.
func NewLocal() *Local {
	return &Local{}
}

// categoryPhrases seeds the keyword matcher. All phrases lowercase;
// matching is case-insensitive substring.
var categoryPhrases = map[model.Category][]string{
	model.CatDataCollection: {
		"information we collect", "data we collect", "categories of information",
		"collect personal information", "collection of personal data",
		"sensitive information", "collect",
	},
	model.CatThirdParty: {
		"third party", "third parties", "third-party", "our partners",
		"data broker", "sell", "sale", "sold", "monetize",
	},
	model.CatPurpose: {
		"purpose", "compatible further processing", "use only for",
		"for the purposes described", "legitimate interests",
	},
	model.CatUserControl: {
		"access your data", "delete your data", "erasure", "correct your data",
		"rectify", "data portability", "opt out", "opt-out",
		"do not sell", "do not share", "ccpa", "gdpr",
	},
	model.CatRetention: {
		"retain", "retention period", "deleted after", "deletion timeline",
		"as long as necessary", "as long as needed",
	},
	model.CatSecurity: {
		"encryption", "encrypted", "tls", "iso 27001", "soc 2",
		"access controls", "security measures", "security breach",
		"breach notification",
	},
	model.CatTransfers: {
		"international transfers", "cross-border", "transfer outside",
		"jurisdiction", "venue", "arbitration", "data privacy framework",
		"standard contractual clauses", "adequacy decision",
	},
	model.CatChildren: {
		"coppa", "child", "children", "minor", "under 13", "under thirteen",
		"biometric", "health data", "precise location", "sensitive categories",
	},
}

// Keyword-density scoring: three phrase hits in one sentence count as
// full keyword strength, scaled by the keyword source weight.
const (
	fullStrengthHits = 3.0
	keywordWeight    = 0.7
)

// Extract scans every sentence against every category's phrase list
// and returns the topK highest-scoring snippets per category, ties
// kept in document order. Categories with no matching sentence are
// absent from the map.
func (l *Local) Extract(_ context.Context, text string, topK int) (map[model.Category][]model.Snippet, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	buckets := make(map[model.Category][]model.Snippet)

	for _, sent := range splitSentences(text) {
		lower := strings.ToLower(sent.text)

		for _, cat := range model.Categories() {
			hits := 0
			var matched []string
			for _, phrase := range categoryPhrases[cat] {
				if n := strings.Count(lower, phrase); n > 0 {
					hits += n
					matched = append(matched, phrase)
				}
			}
			if hits == 0 {
				continue
			}

			kw := float64(hits) / fullStrengthHits
			if kw > 1 {
				kw = 1
			}
			sort.Strings(matched)

			buckets[cat] = append(buckets[cat], model.Snippet{
				Text:    sent.text,
				Start:   sent.start,
				End:     sent.end,
				Score:   clamp01(keywordWeight * kw),
				Matched: matched,
			})
		}
	}

	for cat, snippets := range buckets {
		sort.SliceStable(snippets, func(i, j int) bool {
			return snippets[i].Score > snippets[j].Score
		})
		if len(snippets) > topK {
			snippets = snippets[:topK]
		}
		buckets[cat] = snippets
	}

	return buckets, nil
}

// Scores reports the strongest snippet score per category. Categories
// without evidence are absent, not zero.
func (l *Local) Scores(ctx context.Context, text string) (map[model.Category]float64, error) {
	snippets, err := l.Extract(ctx, text, DefaultTopK)
	if err != nil {
		return nil, err
	}

	out := make(map[model.Category]float64, len(snippets))
	for cat, list := range snippets {
		if len(list) > 0 {
			out[cat] = list[0].Score
		}
	}
	return out, nil
}

type sentence struct {
	text  string
	start int // rune offset into the source text
	end   int
}

// splitSentences breaks text on sentence terminators and paragraph
// boundaries, keeping rune-accurate character spans for each piece.
func splitSentences(text string) []sentence {
	runes := []rune(text)
	var out []sentence

	start := 0
	flush := func(end int) {
		s, e := start, end
		for s < e && unicode.IsSpace(runes[s]) {
			s++
		}
		for e > s && unicode.IsSpace(runes[e-1]) {
			e--
		}
		if e > s {
			out = append(out, sentence{text: string(runes[s:e]), start: s, end: e})
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			j := i
			for j+1 < len(runes) && isTerminator(runes[j+1]) {
				j++
			}
			flush(j + 1)
			i = j
		case '\n':
			// A blank line ends a sentence even without punctuation.
			if i+1 < len(runes) && runes[i+1] == '\n' {
				flush(i)
			}
		}
	}
	flush(len(runes))

	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
