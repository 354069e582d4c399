package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/alignment-baseline/internal/dataset"
	"github.com/danielpatrickdp/alignment-baseline/internal/eval"
)

// DefaultConfigPath is read when neither --config nor BASELINE_CONFIG is set.
const DefaultConfigPath = "baseline.yaml"

// Source kinds.
const (
	SourceJSONL  = "jsonl"
	SourceSQLite = "sqlite"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// RuleConfig names the labels the rule baseline reads and predicts.
type RuleConfig struct {
	ProtestLabel    string `yaml:"protest_label"`
	AlignedLabel    string `yaml:"aligned_label"`
	MisalignedLabel string `yaml:"misaligned_label"`
}

// Config is the resolved run configuration: where examples come from, how the
// report is rendered, and the rule baseline labels.
type Config struct {
	DataPath    string     `yaml:"data_path"`
	Source      string     `yaml:"source"` // "jsonl" | "sqlite"; inferred from the extension when empty
	SQLiteTable string     `yaml:"sqlite_table"`
	Output      string     `yaml:"output"` // "text" | "json"
	Verbose     bool       `yaml:"verbose"`
	Rule        RuleConfig `yaml:"rule"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	rule := eval.DefaultEvalConfig()
	return Config{
		DataPath:    dataset.DefaultDataPath,
		SQLiteTable: dataset.DefaultTable,
		Output:      OutputText,
		Rule: RuleConfig{
			ProtestLabel:    rule.ProtestLabel,
			AlignedLabel:    rule.AlignedLabel,
			MisalignedLabel: rule.MisalignedLabel,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies BASELINE_*
// environment overrides. An empty path falls back to BASELINE_CONFIG and then
// DefaultConfigPath; only an explicitly named file has to exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if envPath := os.Getenv("BASELINE_CONFIG"); envPath != "" {
			path = envPath
			explicit = true
		} else {
			path = DefaultConfigPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	envOverride(&cfg.DataPath, "BASELINE_DATA")
	envOverride(&cfg.Source, "BASELINE_SOURCE")
	envOverride(&cfg.SQLiteTable, "BASELINE_TABLE")
	envOverride(&cfg.Output, "BASELINE_OUTPUT")
	envOverride(&cfg.Rule.ProtestLabel, "BASELINE_PROTEST_LABEL")
	envOverride(&cfg.Rule.AlignedLabel, "BASELINE_ALIGNED_LABEL")
	envOverride(&cfg.Rule.MisalignedLabel, "BASELINE_MISALIGNED_LABEL")
	if err := envOverrideBool(&cfg.Verbose, "BASELINE_VERBOSE"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects unknown enum values and empty rule labels.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("data_path is required")
	}
	switch c.SourceKind() {
	case SourceJSONL, SourceSQLite:
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", c.Source, SourceJSONL, SourceSQLite)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("unknown output %q (want %s or %s)", c.Output, OutputText, OutputJSON)
	}
	if c.Rule.ProtestLabel == "" || c.Rule.AlignedLabel == "" || c.Rule.MisalignedLabel == "" {
		return errors.New("rule labels must not be empty")
	}
	return nil
}

// SourceKind returns Source, or infers it from the data file extension.
func (c Config) SourceKind() string {
	if c.Source != "" {
		return strings.ToLower(c.Source)
	}
	switch strings.ToLower(filepath.Ext(c.DataPath)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceSQLite
	}
	return SourceJSONL
}

// EvalConfig converts the rule section for the eval harness.
func (c Config) EvalConfig() eval.EvalConfig {
	return eval.EvalConfig{
		ProtestLabel:    c.Rule.ProtestLabel,
		AlignedLabel:    c.Rule.AlignedLabel,
		MisalignedLabel: c.Rule.MisalignedLabel,
	}
}

func envOverride(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func envOverrideBool(target *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = b
	return nil
}
