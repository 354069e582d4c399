package dataset

import "context"

// #region static
// StaticSource serves examples already held in memory, such as the inline
// examples of a fixture file.
type StaticSource struct {
	Name     string
	Examples []Example
}

// NewStaticSource copies examples so later edits by the caller do not leak in.
func NewStaticSource(name string, examples []Example) *StaticSource {
	return &StaticSource{Name: name, Examples: append([]Example(nil), examples...)}
}

// Load returns a copy of the held examples in order.
func (s *StaticSource) Load(ctx context.Context) ([]Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Example(nil), s.Examples...), nil
}

func (s *StaticSource) Describe() string { return s.Name }

// #endregion static
