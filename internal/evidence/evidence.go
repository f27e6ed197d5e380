// Package evidence produces ranked per-category sentence snippets
// from policy text, either via a remote extractor service or a
// built-in keyword extractor. The analyzer treats both as optional
// collaborators: a failure means "no corroborating evidence", never
// a failed analysis.
package evidence

import (
	"context"

	"github.com/akorchak/privascope/internal/model"
)

// Extractor is the collaborator contract the analyzer depends on.
// Extract returns, per category, snippets pre-sorted descending by
// score and capped at topK. Scores returns a per-category confidence
// in [0,1]; a category absent from the map means "no signal source",
// which is semantically different from zero.
type Extractor interface {
	Extract(ctx context.Context, text string, topK int) (map[model.Category][]model.Snippet, error)
	Scores(ctx context.Context, text string) (map[model.Category]float64, error)
}

// DefaultTopK is the snippet cap used when the caller does not ask
// for a specific one.
const DefaultTopK = 3

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
