package eval

import (
	"errors"
	"fmt"
)

// #region eval-config
// EvalConfig holds the labels the rule baseline keys on.
type EvalConfig struct {
	ProtestLabel    string // purpose label that predicts misalignment
	AlignedLabel    string // predicted for every other purpose
	MisalignedLabel string // predicted for ProtestLabel
}

// DefaultEvalConfig returns the labels used by the v0.1 annotation guide.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		ProtestLabel:    "PUR_PROTEST",
		AlignedLabel:    "aligned",
		MisalignedLabel: "misaligned",
	}
}

// #endregion eval-config

// #region label-set
// LabelSet holds the purpose, behavior and alignment label sequences of a
// dataset. All three are index-aligned by example.
type LabelSet struct {
	Purposes   []string
	Behaviors  []string
	Alignments []string
}

// Len returns the number of examples in the set.
func (s LabelSet) Len() int {
	return len(s.Purposes)
}

// #endregion label-set

// #region distribution
// LabelCount is one row of a label distribution.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution maps labels to occurrence counts, ordered by descending count.
// Equal counts keep first-encountered order.
type Distribution []LabelCount

// #endregion distribution

// #region scores
// Score is the accuracy / macro-F1 pair for one true/predicted sequence pair.
type Score struct {
	Accuracy float64 `json:"accuracy"`
	MacroF1  float64 `json:"macro_f1"`
}

// LabelScore holds the confusion counts and derived metrics for one label.
type LabelScore struct {
	Label     string  `json:"label"`
	Support   int     `json:"support"`
	TP        int     `json:"tp"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// BaselineResult is the outcome of scoring one baseline against one dimension.
type BaselineResult struct {
	Name      string       `json:"name"`
	Dimension string       `json:"dimension"`
	Label     string       `json:"label"` // majority label, or the rule description
	Score     `json:"score"`
	PerLabel  []LabelScore `json:"per_label"`
}

// #endregion scores

// #region report
// Baseline names, in report order.
const (
	MajorityPurpose   = "majority_purpose"
	MajorityBehavior  = "majority_behavior"
	MajorityAlignment = "majority_alignment"
	RuleAlignment     = "rule_alignment"
)

// Report is everything the evaluation hands to a reporter.
type Report struct {
	Examples  int              `json:"examples"`
	Purpose   Distribution     `json:"purpose"`
	Behavior  Distribution     `json:"behavior"`
	Alignment Distribution     `json:"alignment"`
	Baselines []BaselineResult `json:"baselines"`
}

// Baseline looks up a result by name.
func (r Report) Baseline(name string) (BaselineResult, bool) {
	for _, b := range r.Baselines {
		if b.Name == name {
			return b, true
		}
	}
	return BaselineResult{}, false
}

// #endregion report

// #region errors
// ErrEmptyInput is returned when a majority label is requested for an empty sequence.
var ErrEmptyInput = errors.New("empty label sequence")

// LengthMismatchError reports two sequences that should be index-aligned but differ in length.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: expected %d labels, got %d", e.Want, e.Got)
}

func checkLengths(yTrue, yPred []string) error {
	if len(yTrue) != len(yPred) {
		return &LengthMismatchError{Want: len(yTrue), Got: len(yPred)}
	}
	return nil
}

// #endregion errors
