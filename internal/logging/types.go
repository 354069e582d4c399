package logging

import (
	"time"

	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
)

// #region options
// Options controls logger construction.
type Options struct {
	Verbose bool // debug level
	JSON    bool // JSON encoding instead of console
}

// #endregion options

// #region run-entry
// RunEntry summarises one evaluation run. Run ID and source travel on the
// logger (see ForRun).
type RunEntry struct {
	Examples  int
	Baselines []eval.BaselineResult
	Duration  time.Duration
}

// #endregion run-entry
