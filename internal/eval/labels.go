package eval

import "sort"

// #region count-labels
// CountLabels builds the distribution of labels, most frequent first.
// Ties keep the order in which labels were first seen.
func CountLabels(labels []string) Distribution {
	index := make(map[string]int)
	var dist Distribution
	for _, l := range labels {
		if i, ok := index[l]; ok {
			dist[i].Count++
			continue
		}
		index[l] = len(dist)
		dist = append(dist, LabelCount{Label: l, Count: 1})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Count > dist[j].Count
	})
	return dist
}

// #endregion count-labels

// #region majority-label
// MajorityLabel returns the most frequent label, breaking ties by first occurrence.
func MajorityLabel(labels []string) (string, error) {
	if len(labels) == 0 {
		return "", ErrEmptyInput
	}
	return CountLabels(labels)[0].Label, nil
}

// #endregion majority-label
