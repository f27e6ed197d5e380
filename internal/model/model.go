package model

// Category is one of the fixed privacy assessment dimensions.
// The set is process-wide configuration: categories are never created
// or destroyed at runtime.
type Category string

const (
	CatDataCollection Category = "Data Collection"
	CatThirdParty     Category = "Third-Party Sharing/Selling"
	CatPurpose        Category = "Purpose Limitation"
	CatUserControl    Category = "User Control & Rights"
	CatRetention      Category = "Retention & Deletion"
	CatSecurity       Category = "Security Practices"
	CatTransfers      Category = "International Transfers & Jurisdiction"
	CatChildren       Category = "Children/Minors + Sensitive Data"
)

// Categories returns the category set in canonical order.
// Callers must not mutate the returned slice.
func Categories() []Category {
	return categories
}

var categories = []Category{
	CatDataCollection,
	CatThirdParty,
	CatPurpose,
	CatUserControl,
	CatRetention,
	CatSecurity,
	CatTransfers,
	CatChildren,
}

// Known reports whether c is one of the fixed categories.
func Known(c Category) bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}

// HeuristicResult aggregates pattern-rule hits for one category of a
// single analysis request.
type HeuristicResult struct {
	Delta float64        `json:"delta"`
	Flags []string       `json:"flags"`
	Hits  map[string]int `json:"hits"`
}

// Judgment is a per-category verdict from the semantic judgment
// service. Untrusted input: scores are clamped on ingestion.
type Judgment struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Snippet is one ranked evidence sentence produced by the evidence
// extractor. Start/End are character offsets into the source text.
type Snippet struct {
	Text    string   `json:"text"`
	Start   int      `json:"start"`
	End     int      `json:"end"`
	Score   float64  `json:"score"`
	Matched []string `json:"matched"`
}

// HeuristicDetail is the heuristic portion embedded in a CategoryResult.
type HeuristicDetail struct {
	Delta float64  `json:"delta"`
	Flags []string `json:"flags"`
}

// CategoryResult is the final per-category outcome. Score is always in
// [0,1] regardless of how extreme the contributing inputs were.
type CategoryResult struct {
	Score        float64         `json:"score"`
	Reason       string          `json:"reason"`
	Heuristics   HeuristicDetail `json:"heuristics"`
	EvidenceProb *float64        `json:"evidence_prob,omitempty"`
}

// RiskItem is one issue in the judge's general overview.
type RiskItem struct {
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
}

// Overview is the judge's human-facing general evaluation of a policy.
type Overview struct {
	OverallRating      int        `json:"overall_rating"`
	RiskLevel          string     `json:"risk_level"`
	Summary            string     `json:"summary"`
	Strengths          []string   `json:"strengths"`
	Risks              []RiskItem `json:"risks"`
	MissingDisclosures []string   `json:"missing_disclosures"`
	ActionItems        []string   `json:"action_items"`
}

// Conflict records a contradiction between an enabled user preference
// and the analyzed text.
type Conflict struct {
	Preference string   `json:"preference"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Evidence   *Snippet `json:"evidence,omitempty"`
}

// PreferenceInfo describes one schema entry for API and tool surfaces.
type PreferenceInfo struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Default  bool     `json:"default"`
}

// PreferenceState reports how the request's preference payload was
// interpreted.
type PreferenceState struct {
	Valid  bool             `json:"valid"`
	Values map[string]bool  `json:"values"`
	Schema []PreferenceInfo `json:"schema"`
}

// Personalized carries the preference-aware portion of an analysis.
type Personalized struct {
	Conflicts []Conflict           `json:"conflicts"`
	Penalties map[Category]float64 `json:"penalties"`
}

// Evidence is the optional evidence attachment of an analysis.
type Evidence struct {
	Snippets map[Category][]Snippet `json:"snippets,omitempty"`
	Probs    map[Category]float64   `json:"probs,omitempty"`
}

// Analysis is the final payload for one request. Constructed once,
// serialized, never mutated after return.
type Analysis struct {
	TrustScore   float64                      `json:"trust_score"`
	RiskLevel    string                       `json:"risk_level"`
	Categories   map[Category]*CategoryResult `json:"categories"`
	Weights      map[Category]float64         `json:"weights"`
	Preferences  PreferenceState              `json:"preferences"`
	Evidence     *Evidence                    `json:"evidence,omitempty"`
	Overview     *Overview                    `json:"overview,omitempty"`
	Personalized Personalized                 `json:"personalized"`
}
