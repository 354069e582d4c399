package eval

import "sort"

// #region accuracy
// Accuracy returns the fraction of positions where yPred matches yTrue.
// Empty input scores 0.
func Accuracy(yTrue, yPred []string) (float64, error) {
	if err := checkLengths(yTrue, yPred); err != nil {
		return 0, err
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	correct := 0
	for i, t := range yTrue {
		if t == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// #endregion accuracy

// #region per-label
// PerLabelScores computes precision, recall and F1 for every label present
// in yTrue, sorted by label. Labels that only appear in yPred are not scored,
// but still count as false negatives for the true label they displaced.
func PerLabelScores(yTrue, yPred []string) ([]LabelScore, error) {
	if err := checkLengths(yTrue, yPred); err != nil {
		return nil, err
	}
	if len(yTrue) == 0 {
		return nil, nil
	}

	stats := make(map[string]*LabelScore)
	for _, t := range yTrue {
		if _, ok := stats[t]; !ok {
			stats[t] = &LabelScore{Label: t}
		}
	}

	for i, t := range yTrue {
		p := yPred[i]
		stats[t].Support++
		if t == p {
			stats[t].TP++
			continue
		}
		stats[t].FN++
		if s, ok := stats[p]; ok {
			s.FP++
		}
	}

	scores := make([]LabelScore, 0, len(stats))
	for _, s := range stats {
		s.Precision = ratio(s.TP, s.TP+s.FP)
		s.Recall = ratio(s.TP, s.TP+s.FN)
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		scores = append(scores, *s)
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Label < scores[j].Label
	})
	return scores, nil
}

// #endregion per-label

// #region macro-f1
// MacroF1 is the unweighted mean of per-label F1 over the labels in yTrue.
// Empty input scores 0.
func MacroF1(yTrue, yPred []string) (float64, error) {
	scores, err := PerLabelScores(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return meanF1(scores), nil
}

// #endregion macro-f1

// #region helpers
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func meanF1(scores []LabelScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.F1
	}
	return sum / float64(len(scores))
}

// #endregion helpers
