package heuristics

import (
	"regexp"

	"github.com/akorchak/privascope/internal/model"
)

// Kind tags a rule as a penalty (negative delta) or bonus (positive).
type Kind string

const (
	KindPenalty Kind = "penalty"
	KindBonus   Kind = "bonus"
)

// Rule is one static pattern-detection rule. Rules belong to exactly
// one category and are applied in declaration order.
type Rule struct {
	ID       string
	Category model.Category
	Pattern  *regexp.Regexp
	Delta    float64
	Flag     string
	Kind     Kind
}

// rx compiles a case-insensitive, multi-line pattern. Panics on bad
// patterns; the builtin table is covered by tests.
func rx(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)` + pattern)
}

// builtinRules is the fixed rule table. Order matters: the detector
// applies rules in this sequence and clamps the category delta after
// each one, so the saturation path is reproducible across runs.
var builtinRules = []Rule{
	// Third-Party Sharing/Selling
	{
		ID:       "TP_SELL",
		Category: model.CatThirdParty,
		Pattern:  rx(`\b(sell|sale|sold|monetiz(?:e|ation)|broker|data broker)\b`),
		Delta:    -0.35,
		Flag:     "Mentions selling/monetizing or broker relationship",
		Kind:     KindPenalty,
	},
	{
		ID:       "TP_SHARE_THIRDPARTY",
		Category: model.CatThirdParty,
		Pattern:  rx(`\bshare(?:s|d|ing)?\b.{0,30}\b(third[- ]?part(?:y|ies)|partners?)\b`),
		Delta:    -0.25,
		Flag:     "Mentions sharing with third parties/partners",
		Kind:     KindPenalty,
	},
	{
		ID:       "TP_DNS_LINK",
		Category: model.CatUserControl, // opt-out control, credited to user rights
		Pattern:  rx(`do\s+not\s+(sell|share)`),
		Delta:    0.15,
		Flag:     "Provides a Do Not Sell/Share option",
		Kind:     KindBonus,
	},

	// Tracking/Ads
	{
		ID:       "ADS_TRACKING",
		Category: model.CatThirdParty,
		Pattern:  rx(`\b(adtech|behavioral\s+advertising|targeted\s+ads|cross[- ]site\s+tracking)\b`),
		Delta:    -0.15,
		Flag:     "Behavioral/targeted advertising or cross-site tracking",
		Kind:     KindPenalty,
	},

	// Purpose Limitation
	{
		ID:       "PURPOSE_VAGUE_LI",
		Category: model.CatPurpose,
		Pattern:  rx(`\blegitimate\s+interests\b`),
		Delta:    -0.15,
		Flag:     "Relies on vague 'legitimate interests'",
		Kind:     KindPenalty,
	},
	{
		ID:       "PURPOSE_VAGUE_MAY_SHARE",
		Category: model.CatPurpose,
		Pattern:  rx(`\bmay\b.{0,20}\bshare\b`),
		Delta:    -0.10,
		Flag:     "Vague 'may share' without specifics",
		Kind:     KindPenalty,
	},
	{
		ID:       "PURPOSE_LIMIT_GOOD",
		Category: model.CatPurpose,
		Pattern:  rx(`\buse(?:d)?\s+only\s+for\b|\bfor\s+the\s+purposes\s+described\b`),
		Delta:    0.10,
		Flag:     "States use limited to specific purposes",
		Kind:     KindBonus,
	},

	// Data Collection
	{
		ID:       "COLLECT_SENSITIVE",
		Category: model.CatDataCollection,
		Pattern:  rx(`\b(sensitive\s+(personal\s+)?information|biometric|genetic|health\s+data|precise\s+location)\b`),
		Delta:    -0.20,
		Flag:     "Collects sensitive categories",
		Kind:     KindPenalty,
	},
	{
		ID:       "COLLECT_LISTS_CATEGORIES",
		Category: model.CatDataCollection,
		Pattern:  rx(`\b(categories|types)\s+of\s+(personal\s+)?(information|data)\b`),
		Delta:    0.10,
		Flag:     "Discloses categories of data collected",
		Kind:     KindBonus,
	},

	// User Rights & Controls
	{
		ID:       "RIGHTS_LIST",
		Category: model.CatUserControl,
		Pattern:  rx(`\b(access|delete|erasure|correct|rectify|portability|opt[- ]?out)\b`),
		Delta:    0.15,
		Flag:     "Lists user rights (access/delete/correct/portability/opt-out)",
		Kind:     KindBonus,
	},
	{
		ID:       "REGULATORY_RIGHTS",
		Category: model.CatUserControl,
		Pattern:  rx(`\b(CCPA|GDPR|Do\s+Not\s+Sell|Do\s+Not\s+Share)\b`),
		Delta:    0.10,
		Flag:     "References CCPA/GDPR or Do Not Sell/Share",
		Kind:     KindBonus,
	},

	// Retention & Deletion
	{
		ID:       "RETENTION_INDEFINITE",
		Category: model.CatRetention,
		Pattern:  rx(`\bretain(?:ed|tion)?\b.*\bindefinite(?:ly)?\b`),
		Delta:    -0.25,
		Flag:     "States indefinite retention",
		Kind:     KindPenalty,
	},
	{
		ID:       "RETENTION_VAGUE_LONG",
		Category: model.CatRetention,
		Pattern:  rx(`\bretain\b.*\b(as long as (?:necessary|needed))\b`),
		Delta:    -0.15,
		Flag:     "Vague retention ('as long as necessary')",
		Kind:     KindPenalty,
	},
	{
		ID:       "RETENTION_TIMELINE",
		Category: model.CatRetention,
		Pattern:  rx(`\b(retention\s+period|deleted\s+after|deletion\s+timeline|retain(?:ed|tion)?\s+for\s+\d+\s+(?:days|months|years))\b`),
		Delta:    0.15,
		Flag:     "Provides retention/deletion timelines",
		Kind:     KindBonus,
	},

	// Security Practices
	{
		ID:       "SECURITY_ENCRYPTION",
		Category: model.CatSecurity,
		Pattern:  rx(`\b(encrypt(?:ed|ion)|TLS|HTTPS)\b`),
		Delta:    0.10,
		Flag:     "Mentions encryption/TLS",
		Kind:     KindBonus,
	},
	{
		ID:       "SECURITY_CONTROLS",
		Category: model.CatSecurity,
		Pattern:  rx(`\b(access\s+controls|SOC\s*2|ISO\s*27001|security\s+measures|breach\s+notification)\b`),
		Delta:    0.10,
		Flag:     "Mentions recognized security controls or breach notice",
		Kind:     KindBonus,
	},

	// International Transfers & Jurisdiction
	{
		ID:       "XFER_SAFEGUARDS",
		Category: model.CatTransfers,
		Pattern:  rx(`\b(standard\s+contractual\s+clauses|SCCs?|data\s+privacy\s+framework|adequacy\s+decision)\b`),
		Delta:    0.10,
		Flag:     "Mentions SCCs/DPF/adequacy safeguards",
		Kind:     KindBonus,
	},
	{
		ID:       "JURIS_ARBITRATION",
		Category: model.CatTransfers,
		Pattern:  rx(`\b(arbitration|venue|governing\s+law|jurisdiction)\b`),
		Delta:    -0.05,
		Flag:     "Specifies venue/arbitration (potentially user-unfriendly)",
		Kind:     KindPenalty,
	},

	// Children & Sensitive Data
	{
		ID:       "COPPA_CHILDREN",
		Category: model.CatChildren,
		Pattern:  rx(`\b(COPPA|child(?:ren)?|minor|under\s*1[3-8])\b`),
		Delta:    0.10,
		Flag:     "States minors/COPPA stance",
		Kind:     KindBonus,
	},
	{
		ID:       "SENSITIVE_LIMITS",
		Category: model.CatChildren,
		Pattern:  rx(`\b(biometric|health\s+data|precise\s+location)\b.*\b(not\s+collect|do\s+not\s+collect|prohibit)\b`),
		Delta:    0.10,
		Flag:     "Limits collection of sensitive categories",
		Kind:     KindBonus,
	},
}
