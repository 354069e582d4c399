package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// #region new
// New builds a production zap logger writing to stderr, so stdout stays free
// for the report.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// #endregion new

// #region run-scope
// NewRunID returns a fresh identifier for one evaluation run.
func NewRunID() string {
	return uuid.New().String()
}

// ForRun scopes logger to a run.
func ForRun(logger *zap.Logger, runID, source string) *zap.Logger {
	return logger.With(zap.String("run_id", runID), zap.String("source", source))
}

// #endregion run-scope

// #region log-run
// LogRun writes one debug line per baseline and an info summary line.
func LogRun(logger *zap.Logger, entry RunEntry) {
	for _, b := range entry.Baselines {
		logger.Debug("baseline scored",
			zap.String("baseline", b.Name),
			zap.String("label", b.Label),
			zap.Float64("accuracy", b.Accuracy),
			zap.Float64("macro_f1", b.MacroF1),
			zap.Int("labels", len(b.PerLabel)),
		)
	}
	logger.Info("evaluation finished",
		zap.Int("examples", entry.Examples),
		zap.Int("baselines", len(entry.Baselines)),
		zap.Duration("elapsed", entry.Duration),
	)
}

// #endregion log-run
