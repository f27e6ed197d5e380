package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akorchak/privascope/internal/model"
)

// Weights maps each category to its share of the aggregate trust
// score. Loaded once at startup, shared read-only across requests.
type Weights map[model.Category]float64

// DefaultWeights returns the builtin weight table. Weights sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		model.CatDataCollection: 0.15,
		model.CatThirdParty:     0.20,
		model.CatPurpose:        0.10,
		model.CatUserControl:    0.15,
		model.CatRetention:      0.10,
		model.CatSecurity:       0.10,
		model.CatTransfers:      0.10,
		model.CatChildren:       0.10,
	}
}

// weightSumTolerance absorbs float accumulation error when checking
// that weights sum to 1.0.
const weightSumTolerance = 1e-9

// Validate checks the configuration invariants: every category
// present, each weight in (0,1], no unknown categories, sum 1.0.
// A violation is a deployment bug and must be fatal at startup;
// Blend does not re-validate per request.
func (w Weights) Validate() error {
	for cat := range w {
		if !model.Known(cat) {
			return fmt.Errorf("weights: unknown category %q", cat)
		}
	}

	sum := 0.0
	for _, cat := range model.Categories() {
		weight, ok := w[cat]
		if !ok {
			return fmt.Errorf("weights: missing category %q", cat)
		}
		if weight <= 0 || weight > 1 {
			return fmt.Errorf("weights: %q weight %v out of range (0,1]", cat, weight)
		}
		sum += weight
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights: sum %v, must be 1.0", sum)
	}

	return nil
}

// LoadWeights loads a weight table from a YAML file mapping category
// name to weight. A missing file returns the defaults; an invalid
// file or invalid table is an error.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWeights(), nil
		}
		return nil, fmt.Errorf("read weights config: %w", err)
	}

	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse weights config: %w", err)
	}

	w := make(Weights, len(raw))
	for name, weight := range raw {
		w[model.Category(name)] = weight
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	return w, nil
}
