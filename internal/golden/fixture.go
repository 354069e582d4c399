package golden

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/alignment-baseline/internal/dataset"
	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
)

// DefaultTolerance is used when a fixture does not set one.
const DefaultTolerance = 1e-3

// #region fixture-types

// Fixture pins the expected baseline scores for a dataset.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          *FixtureConfig          `json:"config,omitempty"`
	Examples        []FixtureExample        `json:"examples,omitempty"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
	Tolerance       float64                 `json:"tolerance,omitempty"`
}

// FixtureConfig mirrors eval.EvalConfig with JSON tags.
type FixtureConfig struct {
	ProtestLabel    string `json:"protest_label"`
	AlignedLabel    string `json:"aligned_label"`
	MisalignedLabel string `json:"misaligned_label"`
}

// FixtureExample is an inline example in flat form.
type FixtureExample struct {
	ID        string `json:"id,omitempty"`
	Purpose   string `json:"purpose"`
	Behavior  string `json:"behavior"`
	Alignment string `json:"alignment"`
}

// FixtureExpectedResult captures the expected outcome of one baseline.
type FixtureExpectedResult struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Accuracy float64 `json:"accuracy"`
	MacroF1  float64 `json:"macro_f1"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.ExpectedResults) == 0 {
		return nil, fmt.Errorf("fixture %s: no expected_results", path)
	}
	return &f, nil
}

// ToEvalConfig returns the fixture's rule labels. Labels the fixture leaves
// empty, or a missing config block, fall back to the defaults.
func (f *Fixture) ToEvalConfig() eval.EvalConfig {
	cfg := eval.DefaultEvalConfig()
	if f.Config == nil {
		return cfg
	}
	if f.Config.ProtestLabel != "" {
		cfg.ProtestLabel = f.Config.ProtestLabel
	}
	if f.Config.AlignedLabel != "" {
		cfg.AlignedLabel = f.Config.AlignedLabel
	}
	if f.Config.MisalignedLabel != "" {
		cfg.MisalignedLabel = f.Config.MisalignedLabel
	}
	return cfg
}

// ToExamples converts the inline examples to domain examples.
func (f *Fixture) ToExamples() []dataset.Example {
	out := make([]dataset.Example, len(f.Examples))
	for i, fe := range f.Examples {
		out[i] = dataset.Example{
			ID:        fe.ID,
			Purpose:   fe.Purpose,
			Behavior:  fe.Behavior,
			Alignment: fe.Alignment,
		}
	}
	return out
}

// #endregion fixture-loader
