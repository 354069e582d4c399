package logging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
)

// #region helpers
func observed(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func sampleEntry() RunEntry {
	return RunEntry{
		Examples: 5,
		Baselines: []eval.BaselineResult{
			{Name: eval.MajorityPurpose, Label: "PUR_INFORM", Score: eval.Score{Accuracy: 0.4, MacroF1: 0.19}},
			{Name: eval.RuleAlignment, Label: "PUR_PROTEST->misaligned", Score: eval.Score{Accuracy: 0.8, MacroF1: 0.76}},
		},
		Duration: 3 * time.Millisecond,
	}
}

// #endregion helpers

// #region log-run-tests
func TestLogRun_InfoOnly(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)
	LogRun(logger, sampleEntry())

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "evaluation finished", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(5), fields["examples"])
	assert.Equal(t, int64(2), fields["baselines"])
}

func TestLogRun_DebugPerBaseline(t *testing.T) {
	logger, logs := observed(zapcore.DebugLevel)
	LogRun(logger, sampleEntry())

	scored := logs.FilterMessage("baseline scored").All()
	require.Len(t, scored, 2)
	assert.Equal(t, eval.MajorityPurpose, scored[0].ContextMap()["baseline"])
	assert.Equal(t, 0.8, scored[1].ContextMap()["accuracy"])
}

// #endregion log-run-tests

// #region run-scope-tests
func TestForRun_AddsFields(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)
	ForRun(logger, "abc", "data.jsonl").Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["run_id"])
	assert.Equal(t, "data.jsonl", fields["source"])
}

func TestNewRunID_Unique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestNew_Levels(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(Options{Verbose: true, JSON: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

// #endregion run-scope-tests
