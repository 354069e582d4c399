package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/alignment-baseline/internal/dataset"
	"github.com/danielpatrickdp/alignment-baseline/internal/logging"
)

// #region main
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region command
func newRootCmd() *cobra.Command {
	var (
		dbPath  string
		table   string
		outPath string
		verbose bool
		logJSON bool
	)

	cmd := &cobra.Command{
		Use:   "export-jsonl --db path/to/examples.db [--table examples] [--out examples.jsonl]",
		Short: "Convert a SQLite examples table to nested JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Options{Verbose: verbose, JSON: logJSON})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			if outPath == "" {
				return export(cmd.Context(), dbPath, table, cmd.OutOrStdout(), logger)
			}
			// Export fully before touching outPath so a failure leaves it intact.
			var buf bytes.Buffer
			if err := export(cmd.Context(), dbPath, table, &buf, logger); err != nil {
				return err
			}
			return writeFileAtomic(outPath, buf.Bytes())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fl := cmd.Flags()
	fl.StringVar(&dbPath, "db", "", "SQLite database holding the examples")
	fl.StringVar(&table, "table", dataset.DefaultTable, "table to export")
	fl.StringVar(&outPath, "out", "", "output JSONL path (default stdout)")
	fl.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	fl.BoolVar(&logJSON, "log-json", false, "emit logs as JSON instead of console text")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// #endregion command

// #region export
func export(ctx context.Context, dbPath, table string, w io.Writer, logger *zap.Logger) error {
	src, err := dataset.NewSQLiteSource(dbPath, table)
	if err != nil {
		return err
	}
	defer src.Close()

	examples, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load examples: %w", err)
	}

	bw := bufio.NewWriter(w)
	for i, ex := range examples {
		line, err := encodeExample(ex)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write jsonl: %w", err)
	}

	logger.Info("exported examples",
		zap.String("source", src.Describe()),
		zap.Int("count", len(examples)),
	)
	return nil
}

// writeFileAtomic writes data to a temp file beside path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// encodeExample renders the nested record shape the JSONL source reads.
func encodeExample(ex dataset.Example) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	if ex.ID != "" {
		if doc, err = sjson.SetBytes(doc, "id", ex.ID); err != nil {
			return nil, err
		}
	}
	fields := []struct {
		path  string
		value string
	}{
		{dataset.FieldPurpose, ex.Purpose},
		{dataset.FieldBehavior, ex.Behavior},
		{dataset.FieldAlignment, ex.Alignment},
	}
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// #endregion export
