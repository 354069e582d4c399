package dataset

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/tidwall/gjson"
)

// DefaultDataPath is where the v0.1 annotations live relative to the repo root.
const DefaultDataPath = "annotations/examples/examples_v0_1.jsonl"

const maxLineBytes = 16 << 20

// #region jsonl-source
// JSONLSource reads one JSON object per line.
type JSONLSource struct {
	Path string
}

// NewJSONLSource creates a source for the given file.
func NewJSONLSource(path string) *JSONLSource {
	return &JSONLSource{Path: path}
}

// Describe returns the file path.
func (s *JSONLSource) Describe() string {
	return s.Path
}

// Load reads every example in the file.
func (s *JSONLSource) Load(ctx context.Context) ([]Example, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot find data file %s: %w", s.Path, err)
		}
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	examples, err := ReadJSONL(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return examples, nil
}

// #endregion jsonl-source

// #region read-jsonl
// ReadJSONL parses examples from r. Blank lines are skipped; line numbers in
// errors count every physical line.
func ReadJSONL(ctx context.Context, r io.Reader) ([]Example, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var examples []Example
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ex, err := parseExample(line, lineNo)
		if err != nil {
			return nil, err
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan line %d: %w", lineNo+1, err)
	}
	return examples, nil
}

// #endregion read-jsonl

// #region parse
// parseExample accepts both nested ({"purpose":{"label":"X"}}) and flat
// ({"purpose.label":"X"}) record shapes.
func parseExample(line []byte, lineNo int) (Example, error) {
	if !gjson.ValidBytes(line) {
		return Example{}, &SyntaxError{Line: lineNo, Msg: "malformed JSON"}
	}
	doc := gjson.ParseBytes(line)
	if !doc.IsObject() {
		return Example{}, &SyntaxError{Line: lineNo, Msg: "expected a JSON object"}
	}

	ex := Example{}
	if id := doc.Get("id"); id.Exists() && id.Type != gjson.Null {
		ex.ID = id.String()
	}

	var err error
	if ex.Purpose, err = lookupLabel(doc, FieldPurpose, lineNo, ex.ID); err != nil {
		return Example{}, err
	}
	if ex.Behavior, err = lookupLabel(doc, FieldBehavior, lineNo, ex.ID); err != nil {
		return Example{}, err
	}
	if ex.Alignment, err = lookupLabel(doc, FieldAlignment, lineNo, ex.ID); err != nil {
		return Example{}, err
	}
	if err := ex.Validate(lineNo); err != nil {
		return Example{}, err
	}
	return ex, nil
}

func lookupLabel(doc gjson.Result, field string, lineNo int, id string) (string, error) {
	res := doc.Get(field)
	if !res.Exists() {
		res = doc.Get(escapePath(field))
	}
	switch {
	case !res.Exists(), res.Type == gjson.Null:
		return "", &MissingFieldError{Line: lineNo, ID: id, Field: field, Reason: "missing"}
	case res.Type != gjson.String:
		return "", &MissingFieldError{Line: lineNo, ID: id, Field: field, Reason: "is not a string"}
	}
	return res.Str, nil
}

// escapePath turns "purpose.label" into a gjson path matching that literal key.
func escapePath(field string) string {
	var buf bytes.Buffer
	for _, r := range field {
		if r == '.' {
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// #endregion parse
