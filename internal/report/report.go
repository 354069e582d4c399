package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
)

// #region types
// Envelope is the JSON document written for --output json.
type Envelope struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`
	eval.Report
}

// TextOptions controls the human-readable report.
type TextOptions struct {
	PerLabel bool // add a precision/recall/F1 table under each baseline
}

var displayNames = map[string]string{
	eval.MajorityPurpose:   "Majority purpose:",
	eval.MajorityBehavior:  "Majority behavior:",
	eval.MajorityAlignment: "Majority alignment:",
	eval.RuleAlignment:     "Rule alignment:",
}

// #endregion types

// #region text
// WriteText renders distributions and baseline scores as aligned plain text.
func WriteText(w io.Writer, source string, r eval.Report, opts TextOptions) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Loaded %d examples from %s\n", r.Examples, source)

	writeDistribution(&b, "Purpose", r.Purpose)
	writeDistribution(&b, "Behavior", r.Behavior)
	writeDistribution(&b, "Alignment", r.Alignment)

	b.WriteString("\nBaselines:\n")
	for _, res := range r.Baselines {
		fmt.Fprintf(&b, "  %-20s%-12s | acc = %.3f | macro-F1 = %.3f\n",
			displayName(res.Name), res.Label, res.Accuracy, res.MacroF1)
		if opts.PerLabel {
			writePerLabel(&b, res.PerLabel)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeDistribution(b *strings.Builder, title string, d eval.Distribution) {
	fmt.Fprintf(b, "\n%s label distribution:\n", title)
	for _, lc := range d {
		fmt.Fprintf(b, "  %-12s  %d\n", lc.Label, lc.Count)
	}
}

func writePerLabel(b *strings.Builder, scores []eval.LabelScore) {
	fmt.Fprintf(b, "      %-16s %9s %9s %9s %8s\n", "label", "precision", "recall", "f1", "support")
	for _, s := range scores {
		fmt.Fprintf(b, "      %-16s %9.3f %9.3f %9.3f %8d\n", s.Label, s.Precision, s.Recall, s.F1, s.Support)
	}
}

func displayName(name string) string {
	if d, ok := displayNames[name]; ok {
		return d
	}
	return name + ":"
}

// #endregion text

// #region json
// WriteJSON writes env as indented JSON.
func WriteJSON(w io.Writer, env Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// #endregion json
