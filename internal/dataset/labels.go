package dataset

import "github.com/danielpatrickdp/alignment-baseline/internal/eval"

// #region labels
// Labels projects examples into index-aligned purpose, behavior and
// alignment sequences. A record missing any label aborts the projection,
// since skipping it would shift every later position.
func Labels(examples []Example) (eval.LabelSet, error) {
	set := eval.LabelSet{
		Purposes:   make([]string, 0, len(examples)),
		Behaviors:  make([]string, 0, len(examples)),
		Alignments: make([]string, 0, len(examples)),
	}
	for i, ex := range examples {
		if err := ex.Validate(i + 1); err != nil {
			return eval.LabelSet{}, err
		}
		set.Purposes = append(set.Purposes, ex.Purpose)
		set.Behaviors = append(set.Behaviors, ex.Behavior)
		set.Alignments = append(set.Alignments, ex.Alignment)
	}
	return set, nil
}

// #endregion labels
