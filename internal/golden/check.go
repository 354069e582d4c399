package golden

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
)

// #region types
// Mismatch describes one expected value that the report did not reproduce.
type Mismatch struct {
	Name   string
	Metric string // "label" | "accuracy" | "macro_f1" | "missing"
	Want   string
	Got    string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: want %s, got %s", m.Name, m.Metric, m.Want, m.Got)
}

// #endregion types

// #region check
// Check compares a report against the fixture's expected results. Scores
// match within the fixture tolerance; labels must match exactly.
func Check(f *Fixture, r eval.Report) []Mismatch {
	tol := f.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	var mismatches []Mismatch
	for _, want := range f.ExpectedResults {
		got, ok := r.Baseline(want.Name)
		if !ok {
			mismatches = append(mismatches, Mismatch{Name: want.Name, Metric: "missing", Want: "present", Got: "absent"})
			continue
		}
		if want.Label != "" && want.Label != got.Label {
			mismatches = append(mismatches, Mismatch{Name: want.Name, Metric: "label", Want: want.Label, Got: got.Label})
		}
		if math.Abs(want.Accuracy-got.Accuracy) > tol {
			mismatches = append(mismatches, Mismatch{Name: want.Name, Metric: "accuracy", Want: fmtScore(want.Accuracy), Got: fmtScore(got.Accuracy)})
		}
		if math.Abs(want.MacroF1-got.MacroF1) > tol {
			mismatches = append(mismatches, Mismatch{Name: want.Name, Metric: "macro_f1", Want: fmtScore(want.MacroF1), Got: fmtScore(got.MacroF1)})
		}
	}
	return mismatches
}

func fmtScore(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// #endregion check
