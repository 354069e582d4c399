package eval

// #region majority-baseline
// MajorityBaseline fits the majority label of labels and predicts it at every position.
func MajorityBaseline(labels []string) (string, []string, error) {
	label, err := MajorityLabel(labels)
	if err != nil {
		return "", nil, err
	}
	pred := make([]string, len(labels))
	for i := range pred {
		pred[i] = label
	}
	return label, pred, nil
}

// #endregion majority-baseline

// #region rule-baseline
// RuleBaseline predicts alignment from purpose: the protest purpose maps to
// misaligned, everything else to aligned.
type RuleBaseline struct {
	config EvalConfig
}

// NewRuleBaseline creates a rule baseline keyed on the configured labels.
func NewRuleBaseline(config EvalConfig) RuleBaseline {
	return RuleBaseline{config: config}
}

// Predict returns one alignment prediction per purpose label.
func (r RuleBaseline) Predict(purposes []string) []string {
	pred := make([]string, len(purposes))
	for i, p := range purposes {
		if p == r.config.ProtestLabel {
			pred[i] = r.config.MisalignedLabel
		} else {
			pred[i] = r.config.AlignedLabel
		}
	}
	return pred
}

// Describe renders the rule as "PUR_PROTEST->misaligned".
func (r RuleBaseline) Describe() string {
	return r.config.ProtestLabel + "->" + r.config.MisalignedLabel
}

// #endregion rule-baseline
