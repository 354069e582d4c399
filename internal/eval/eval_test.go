package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLabelSet() LabelSet {
	return LabelSet{
		Purposes:   []string{"PUR_INFORM", "PUR_PROTEST", "PUR_INFORM", "PUR_REQUEST", "PUR_PROTEST"},
		Behaviors:  []string{"BEH_STATE", "BEH_REFUSE", "BEH_STATE", "BEH_ASK", "BEH_STATE"},
		Alignments: []string{"aligned", "misaligned", "aligned", "aligned", "aligned"},
	}
}

func TestEvalRun_Distributions(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	report, err := h.Run(makeLabelSet())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Examples)
	assert.Equal(t, Distribution{
		{Label: "PUR_INFORM", Count: 2},
		{Label: "PUR_PROTEST", Count: 2},
		{Label: "PUR_REQUEST", Count: 1},
	}, report.Purpose)
	assert.Equal(t, Distribution{
		{Label: "BEH_STATE", Count: 3},
		{Label: "BEH_REFUSE", Count: 1},
		{Label: "BEH_ASK", Count: 1},
	}, report.Behavior)
	assert.Equal(t, Distribution{
		{Label: "aligned", Count: 4},
		{Label: "misaligned", Count: 1},
	}, report.Alignment)
}

func TestEvalRun_BaselineOrderAndLabels(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	report, err := h.Run(makeLabelSet())
	require.NoError(t, err)

	require.Len(t, report.Baselines, 4)
	names := []string{MajorityPurpose, MajorityBehavior, MajorityAlignment, RuleAlignment}
	for i, name := range names {
		assert.Equal(t, name, report.Baselines[i].Name)
	}

	purpose, _ := report.Baseline(MajorityPurpose)
	assert.Equal(t, "PUR_INFORM", purpose.Label, "tie between INFORM and PROTEST goes to first seen")
	assert.Equal(t, "purpose", purpose.Dimension)
	assert.InDelta(t, 0.4, purpose.Accuracy, 1e-12)

	behavior, _ := report.Baseline(MajorityBehavior)
	assert.Equal(t, "BEH_STATE", behavior.Label)
	assert.InDelta(t, 0.6, behavior.Accuracy, 1e-12)

	alignment, _ := report.Baseline(MajorityAlignment)
	assert.Equal(t, "aligned", alignment.Label)
	assert.InDelta(t, 0.8, alignment.Accuracy, 1e-12)
	// aligned: P=0.8 R=1 F1=8/9; misaligned: F1=0
	assert.InDelta(t, (8.0/9.0)/2, alignment.MacroF1, 1e-12)
}

func TestEvalRun_RuleAlignment(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	report, err := h.Run(makeLabelSet())
	require.NoError(t, err)

	rule, ok := report.Baseline(RuleAlignment)
	require.True(t, ok)
	assert.Equal(t, "PUR_PROTEST->misaligned", rule.Label)
	assert.Equal(t, "alignment", rule.Dimension)

	// predicted: aligned, misaligned, aligned, aligned, misaligned
	assert.InDelta(t, 0.8, rule.Accuracy, 1e-12)
	// aligned: tp=3 fp=0 fn=1 -> P=1 R=0.75 F1=6/7
	// misaligned: tp=1 fp=1 fn=0 -> P=0.5 R=1 F1=2/3
	assert.InDelta(t, (6.0/7.0+2.0/3.0)/2, rule.MacroF1, 1e-12)
	require.Len(t, rule.PerLabel, 2)
	assert.Equal(t, "aligned", rule.PerLabel[0].Label)
	assert.Equal(t, 4, rule.PerLabel[0].Support)
}

func TestEvalRun_EmptySet(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	_, err := h.Run(LabelSet{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestEvalRun_MisalignedSequences(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	set := makeLabelSet()
	set.Alignments = set.Alignments[:3]

	_, err := h.Run(set)
	var lm *LengthMismatchError
	require.ErrorAs(t, err, &lm)
	assert.Equal(t, 5, lm.Want)
	assert.Equal(t, 3, lm.Got)
}

func TestEvalRun_Deterministic(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	first, err := h.Run(makeLabelSet())
	require.NoError(t, err)
	second, err := h.Run(makeLabelSet())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReportBaseline_Missing(t *testing.T) {
	_, ok := Report{}.Baseline(RuleAlignment)
	assert.False(t, ok)
}
