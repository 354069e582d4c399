package dataset

import (
	"context"
	"fmt"
	"strings"
)

// #region example
// Example is one annotated utterance with its three labels.
type Example struct {
	ID        string // optional, for diagnostics only
	Purpose   string
	Behavior  string
	Alignment string
}

// Field paths of the three required labels.
const (
	FieldPurpose   = "purpose.label"
	FieldBehavior  = "behavior.label"
	FieldAlignment = "alignment.label"
)

// Validate checks that all three labels are present. line is the 1-based
// record position used in the returned *MissingFieldError.
func (e Example) Validate(line int) error {
	checks := []struct {
		field string
		value string
	}{
		{FieldPurpose, e.Purpose},
		{FieldBehavior, e.Behavior},
		{FieldAlignment, e.Alignment},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return &MissingFieldError{Line: line, ID: e.ID, Field: c.field, Reason: "missing or empty"}
		}
	}
	return nil
}

// #endregion example

// #region source
// Source supplies the ordered examples of one dataset.
type Source interface {
	Load(ctx context.Context) ([]Example, error)
	Describe() string
}

// #endregion source

// #region errors
// MissingFieldError reports a record without one of the required labels.
type MissingFieldError struct {
	Line   int    // 1-based line (JSONL) or row ordinal (SQLite)
	ID     string // record id when the record carried one
	Field  string // e.g. "purpose.label"
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %d (id %s): %s %s", e.Line, e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %d: %s %s", e.Line, e.Field, e.Reason)
}

// SyntaxError reports a JSONL line that is not a JSON object.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON on line %d: %s", e.Line, e.Msg)
}

// #endregion errors
