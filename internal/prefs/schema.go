// Package prefs defines the fixed set of togglable user privacy
// preferences. A preference set true means "I want this protected or
// limited". Preference input comes from an untrusted client, so
// validation degrades gracefully instead of rejecting the request.
package prefs

import (
	"github.com/akorchak/privascope/internal/model"
)

// Preference is one schema entry: a boolean toggle with a display
// title, a primary category, and a default value.
type Preference struct {
	Key      string
	Title    string
	Category model.Category
	Default  bool
}

// schema is the static preference questionnaire, in display order.
var schema = []Preference{
	{
		Key:      "protect_location",
		Title:    "Keep my precise location private",
		Category: model.CatChildren,
		Default:  true,
	},
	{
		Key:      "opt_out_targeted_ads",
		Title:    "Opt out of targeted/behavioral advertising",
		Category: model.CatUserControl,
		Default:  true,
	},
	{
		Key:      "no_sale_or_sharing",
		Title:    "Do not sell or share my personal data",
		Category: model.CatThirdParty,
		Default:  true,
	},
	{
		Key:      "limit_data_collection",
		Title:    "Limit the types of data collected (only necessary)",
		Category: model.CatDataCollection,
		Default:  false,
	},
	{
		Key:      "short_retention",
		Title:    "Do not retain my data indefinitely (short retention only)",
		Category: model.CatRetention,
		Default:  true,
	},
	{
		Key:      "restrict_cross_border",
		Title:    "Avoid cross-border transfers unless strong safeguards",
		Category: model.CatTransfers,
		Default:  false,
	},
	{
		Key:      "strong_security",
		Title:    "Require strong security (encryption, access controls, breach notice)",
		Category: model.CatSecurity,
		Default:  true,
	},
	{
		Key:      "child_privacy",
		Title:    "Protect minors' data and sensitive categories",
		Category: model.CatChildren,
		Default:  true,
	},
}

// Schema returns the preference schema in display order.
// Callers must not mutate the returned slice.
func Schema() []Preference {
	return schema
}

// Keys returns the schema keys in display order. This is the iteration
// order for anything that must be deterministic across runs.
func Keys() []string {
	keys := make([]string, len(schema))
	for i, p := range schema {
		keys[i] = p.Key
	}
	return keys
}

// Defaults returns a fresh preference set with every key at its
// schema default.
func Defaults() map[string]bool {
	out := make(map[string]bool, len(schema))
	for _, p := range schema {
		out[p.Key] = p.Default
	}
	return out
}

// Validate never fails. A nil input or a well-typed map yields
// valid=true; anything that is not a mapping yields valid=false and
// falls back entirely to defaults. Known keys with boolean values
// override the default; unknown keys and non-boolean values are
// silently ignored.
func Validate(input any) (valid bool, cleaned map[string]bool) {
	cleaned = Defaults()

	switch m := input.(type) {
	case nil:
		return true, cleaned
	case map[string]bool:
		for _, p := range schema {
			if v, ok := m[p.Key]; ok {
				cleaned[p.Key] = v
			}
		}
		return true, cleaned
	case map[string]any:
		for _, p := range schema {
			if v, ok := m[p.Key]; ok {
				if b, ok := v.(bool); ok {
					cleaned[p.Key] = b
				}
			}
		}
		return true, cleaned
	default:
		return false, cleaned
	}
}

// Describe exports the schema for API and tool surfaces.
func Describe() []model.PreferenceInfo {
	out := make([]model.PreferenceInfo, len(schema))
	for i, p := range schema {
		out[i] = model.PreferenceInfo{
			Key:      p.Key,
			Title:    p.Title,
			Category: p.Category,
			Default:  p.Default,
		}
	}
	return out
}
