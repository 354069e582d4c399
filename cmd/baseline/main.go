package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/alignment-baseline/internal/config"
	"github.com/danielpatrickdp/alignment-baseline/internal/dataset"
	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
	"github.com/danielpatrickdp/alignment-baseline/internal/golden"
	"github.com/danielpatrickdp/alignment-baseline/internal/logging"
	"github.com/danielpatrickdp/alignment-baseline/internal/report"
)

// newLogger is swapped for zap.NewNop in tests.
var newLogger = logging.New

// #region main
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// #endregion main

// #region command
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type flags struct {
	configPath string
	dataPath   string
	source     string
	table      string
	output     string
	protest    string
	expect     string
	perLabel   bool
	verbose    bool
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "baseline [data-file]",
		Short: "Score majority and rule baselines on purpose/behavior/alignment labels",
		Long: `Loads hand-labeled examples, prints the purpose, behavior and alignment
label distributions, and scores four interpretable baselines:

  majority purpose / behavior / alignment  always predict the most frequent label
  rule alignment                           PUR_PROTEST -> misaligned, else aligned

Each baseline reports accuracy and macro-F1 over the labels present in the data.
The data file is JSON lines by default; .db/.sqlite files are read as SQLite.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}

			opts := runOptions{text: report.TextOptions{PerLabel: f.perLabel}}
			if f.expect != "" {
				fixture, err := golden.LoadFixture(f.expect)
				if err != nil {
					return err
				}
				dataGiven := len(args) == 1 || cmd.Flags().Changed("data")
				if err := applyFixture(cmd, &cfg, &opts, f.expect, fixture, dataGiven); err != nil {
					return err
				}
			}

			logger, err := newLogger(logging.Options{Verbose: cfg.Verbose, JSON: f.logJSON})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), cfg, opts, cmd.OutOrStdout(), logger)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file (default $BASELINE_CONFIG or "+config.DefaultConfigPath+")")
	fl.StringVarP(&f.dataPath, "data", "d", "", "examples file (default "+dataset.DefaultDataPath+")")
	fl.StringVar(&f.source, "source", "", "record source: jsonl or sqlite (default inferred from extension)")
	fl.StringVar(&f.table, "table", "", "SQLite table holding the examples (default "+dataset.DefaultTable+")")
	fl.StringVarP(&f.output, "output", "o", "", "report format: text or json")
	fl.StringVar(&f.protest, "protest-label", "", "purpose label the rule baseline maps to misaligned")
	fl.StringVar(&f.expect, "expect", "", "fail if scores drift from this JSON fixture (its config and inline examples apply)")
	fl.BoolVar(&f.perLabel, "per-label", false, "show per-label precision/recall/F1 in the text report")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fl.BoolVar(&f.logJSON, "log-json", false, "emit logs as JSON instead of console text")

	return cmd
}

// resolveConfig layers defaults, config file, env and finally explicit flags.
func resolveConfig(cmd *cobra.Command, f flags, args []string) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("data") {
		cfg.DataPath = f.dataPath
	}
	if len(args) == 1 {
		cfg.DataPath = args[0]
	}
	if changed("source") {
		cfg.Source = f.source
	}
	if changed("table") {
		cfg.SQLiteTable = f.table
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("protest-label") {
		cfg.Rule.ProtestLabel = f.protest
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, &usageError{err}
	}
	return cfg, nil
}

// applyFixture lets an --expect fixture carry its own rule labels and
// examples. An explicit --protest-label must agree with the fixture, and an
// explicit data file wins over inline examples.
func applyFixture(cmd *cobra.Command, cfg *config.Config, opts *runOptions, path string, fixture *golden.Fixture, dataGiven bool) error {
	opts.expect = fixture
	if fixture.Config != nil {
		fc := fixture.ToEvalConfig()
		if cmd.Flags().Changed("protest-label") && cfg.Rule.ProtestLabel != fc.ProtestLabel {
			return &usageError{fmt.Errorf("--protest-label %q conflicts with protest_label %q in %s",
				cfg.Rule.ProtestLabel, fc.ProtestLabel, path)}
		}
		cfg.Rule = config.RuleConfig{
			ProtestLabel:    fc.ProtestLabel,
			AlignedLabel:    fc.AlignedLabel,
			MisalignedLabel: fc.MisalignedLabel,
		}
	}
	if len(fixture.Examples) > 0 && !dataGiven {
		opts.source = dataset.NewStaticSource(path+"#examples", fixture.ToExamples())
	}
	return nil
}

// #endregion command

// #region run
type runOptions struct {
	text   report.TextOptions
	expect *golden.Fixture // nil skips the drift check
	source dataset.Source  // overrides the configured data file when set
}

func run(ctx context.Context, cfg config.Config, opts runOptions, out io.Writer, logger *zap.Logger) error {
	src, closeSrc := opts.source, func() {}
	if src == nil {
		var err error
		if src, closeSrc, err = openSource(cfg); err != nil {
			return err
		}
	}
	defer closeSrc()

	runID := logging.NewRunID()
	log := logging.ForRun(logger, runID, src.Describe())
	start := time.Now()

	examples, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load examples: %w", err)
	}
	log.Info("examples loaded", zap.Int("count", len(examples)))

	set, err := dataset.Labels(examples)
	if err != nil {
		return fmt.Errorf("extract labels: %w", err)
	}

	rep, err := eval.NewEvalHarness(cfg.EvalConfig()).Run(set)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", src.Describe(), err)
	}
	logging.LogRun(log, logging.RunEntry{
		Examples:  rep.Examples,
		Baselines: rep.Baselines,
		Duration:  time.Since(start),
	})

	if cfg.Output == config.OutputJSON {
		err = report.WriteJSON(out, report.Envelope{RunID: runID, Source: src.Describe(), Report: rep})
	} else {
		err = report.WriteText(out, src.Describe(), rep, opts.text)
	}
	if err != nil || opts.expect == nil {
		return err
	}

	mismatches := golden.Check(opts.expect, rep)
	for _, m := range mismatches {
		log.Warn("baseline drifted", zap.String("detail", m.String()))
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d expected values drifted, first: %s", len(mismatches), mismatches[0])
	}
	log.Info("expected results matched", zap.Int("checked", len(opts.expect.ExpectedResults)))
	return nil
}

func openSource(cfg config.Config) (dataset.Source, func(), error) {
	if cfg.SourceKind() == config.SourceSQLite {
		src, err := dataset.NewSQLiteSource(cfg.DataPath, cfg.SQLiteTable)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	}
	return dataset.NewJSONLSource(cfg.DataPath), func() {}, nil
}

// #endregion run
