package heuristics

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/akorchak/privascope/internal/model"
)

// Config holds operator-defined rule customizations.
type Config struct {
	ExtraRules []RuleDef `yaml:"extra_rules"`
	Disable    []string  `yaml:"disable"`
}

// RuleDef defines a custom rule from config. Extra rules are appended
// after the builtin table and applied in file order.
type RuleDef struct {
	ID       string  `yaml:"id"`
	Category string  `yaml:"category"`
	Regex    string  `yaml:"regex"`
	Delta    float64 `yaml:"delta"`
	Flag     string  `yaml:"flag"`
	Kind     string  `yaml:"kind"`
}

// LoadConfig loads rule customizations from the given path.
// A missing file returns a nil config (not an error); invalid YAML is
// a startup error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rules config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rules config: %w", err)
	}

	return &cfg, nil
}

// Build validates and compiles a rule set from the builtin table plus
// the given config. A nil config yields the builtin set unchanged.
func Build(cfg *Config) (*RuleSet, error) {
	if cfg == nil {
		return Default(), nil
	}

	disabled := make(map[string]bool, len(cfg.Disable))
	known := make(map[string]bool, len(builtinRules))
	for _, r := range builtinRules {
		known[r.ID] = true
	}
	for _, id := range cfg.Disable {
		if !known[id] {
			return nil, fmt.Errorf("disable: unknown rule ID %q", id)
		}
		disabled[id] = true
	}

	var rules []Rule
	for _, r := range builtinRules {
		if !disabled[r.ID] {
			rules = append(rules, r)
		}
	}

	for i, def := range cfg.ExtraRules {
		r, err := compileRule(def)
		if err != nil {
			return nil, fmt.Errorf("extra_rules[%d]: %w", i, err)
		}
		if known[r.ID] {
			return nil, fmt.Errorf("extra_rules[%d]: ID %q collides with a builtin rule", i, r.ID)
		}
		rules = append(rules, r)
	}

	return &RuleSet{rules: rules}, nil
}

func compileRule(def RuleDef) (Rule, error) {
	if def.ID == "" {
		return Rule{}, fmt.Errorf("id is required")
	}
	if def.Regex == "" {
		return Rule{}, fmt.Errorf("%q: regex is required", def.ID)
	}
	cat := model.Category(def.Category)
	if !model.Known(cat) {
		return Rule{}, fmt.Errorf("%q: unknown category %q", def.ID, def.Category)
	}
	if def.Delta < -1.0 || def.Delta > 1.0 {
		return Rule{}, fmt.Errorf("%q: delta %v out of range [-1,1]", def.ID, def.Delta)
	}
	if def.Delta == 0 {
		return Rule{}, fmt.Errorf("%q: delta must be non-zero", def.ID)
	}

	re, err := regexp.Compile(`(?im)` + def.Regex)
	if err != nil {
		return Rule{}, fmt.Errorf("%q: invalid regex: %w", def.ID, err)
	}

	kind := KindPenalty
	if def.Delta > 0 {
		kind = KindBonus
	}
	if def.Kind != "" {
		switch strings.ToLower(def.Kind) {
		case string(KindPenalty):
			kind = KindPenalty
		case string(KindBonus):
			kind = KindBonus
		default:
			return Rule{}, fmt.Errorf("%q: invalid kind %q", def.ID, def.Kind)
		}
	}

	flag := def.Flag
	if flag == "" {
		flag = fmt.Sprintf("Matches custom rule %s", def.ID)
	}

	return Rule{
		ID:       def.ID,
		Category: cat,
		Pattern:  re,
		Delta:    def.Delta,
		Flag:     flag,
		Kind:     kind,
	}, nil
}
