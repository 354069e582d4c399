package eval

import "fmt"

// #region eval-harness
// EvalHarness runs every baseline over a label set and scores it.
type EvalHarness struct {
	config EvalConfig
	rule   RuleBaseline
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{
		config: config,
		rule:   NewRuleBaseline(config),
	}
}

// Run computes the three label distributions, fits the majority baselines,
// applies the rule baseline and scores all four. An empty set fails with
// ErrEmptyInput because no majority label exists.
func (h *EvalHarness) Run(set LabelSet) (Report, error) {
	n := set.Len()
	if len(set.Behaviors) != n {
		return Report{}, fmt.Errorf("behavior labels: %w", &LengthMismatchError{Want: n, Got: len(set.Behaviors)})
	}
	if len(set.Alignments) != n {
		return Report{}, fmt.Errorf("alignment labels: %w", &LengthMismatchError{Want: n, Got: len(set.Alignments)})
	}

	report := Report{
		Examples:  n,
		Purpose:   CountLabels(set.Purposes),
		Behavior:  CountLabels(set.Behaviors),
		Alignment: CountLabels(set.Alignments),
	}

	majority := []struct {
		name      string
		dimension string
		labels    []string
	}{
		{MajorityPurpose, "purpose", set.Purposes},
		{MajorityBehavior, "behavior", set.Behaviors},
		{MajorityAlignment, "alignment", set.Alignments},
	}

	for _, m := range majority {
		label, pred, err := MajorityBaseline(m.labels)
		if err != nil {
			return Report{}, fmt.Errorf("majority %s: %w", m.dimension, err)
		}
		res, err := scoreBaseline(m.name, m.dimension, label, m.labels, pred)
		if err != nil {
			return Report{}, err
		}
		report.Baselines = append(report.Baselines, res)
	}

	rulePred := h.rule.Predict(set.Purposes)
	res, err := scoreBaseline(RuleAlignment, "alignment", h.rule.Describe(), set.Alignments, rulePred)
	if err != nil {
		return Report{}, err
	}
	report.Baselines = append(report.Baselines, res)

	return report, nil
}

// #endregion eval-harness

// #region helpers
func scoreBaseline(name, dimension, label string, yTrue, yPred []string) (BaselineResult, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return BaselineResult{}, fmt.Errorf("score %s: %w", name, err)
	}
	perLabel, err := PerLabelScores(yTrue, yPred)
	if err != nil {
		return BaselineResult{}, fmt.Errorf("score %s: %w", name, err)
	}
	return BaselineResult{
		Name:      name,
		Dimension: dimension,
		Label:     label,
		Score: Score{
			Accuracy: acc,
			MacroF1:  meanF1(perLabel),
		},
		PerLabel: perLabel,
	}, nil
}

// #endregion helpers
