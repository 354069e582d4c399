package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "examples"

// #region schema
// Schema creates the default examples table.
const Schema = `
CREATE TABLE IF NOT EXISTS examples (
	id              TEXT,
	purpose_label   TEXT,
	behavior_label  TEXT,
	alignment_label TEXT,
	text            TEXT
);
`

var requiredColumns = []string{"purpose_label", "behavior_label", "alignment_label"}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// #endregion schema

// #region sqlite-source
// SQLiteSource reads examples from a table, one row per example in rowid order.
type SQLiteSource struct {
	db     *sql.DB
	path   string
	table  string
	hasID  bool
	probed bool
}

// NewSQLiteSource opens an existing SQLite database.
func NewSQLiteSource(dbPath, table string) (*SQLiteSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	// sql.Open would create a missing file.
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot find database %s: %w", dbPath, err)
		}
		return nil, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open db %s: %w", dbPath, err)
	}
	return &SQLiteSource{db: db, path: dbPath, table: table}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Describe returns "path#table".
func (s *SQLiteSource) Describe() string {
	return s.path + "#" + s.table
}

// #endregion sqlite-source

// #region load
// Load reads every row. NULL or empty labels fail with *MissingFieldError
// carrying the 1-based row ordinal.
func (s *SQLiteSource) Load(ctx context.Context) ([]Example, error) {
	if err := s.probe(ctx); err != nil {
		return nil, err
	}

	idExpr := "CAST(rowid AS TEXT)"
	if s.hasID {
		idExpr = "CAST(id AS TEXT)"
	}
	query := fmt.Sprintf(
		`SELECT %s, purpose_label, behavior_label, alignment_label FROM %s ORDER BY rowid`,
		idExpr, s.table,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var examples []Example
	row := 0
	for rows.Next() {
		row++
		var id, purpose, behavior, alignment sql.NullString
		if err := rows.Scan(&id, &purpose, &behavior, &alignment); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", row, err)
		}
		ex := Example{
			ID:        id.String,
			Purpose:   purpose.String,
			Behavior:  behavior.String,
			Alignment: alignment.String,
		}
		if err := ex.Validate(row); err != nil {
			return nil, err
		}
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return examples, nil
}

// probe checks the table has the label columns and whether it has an id column.
func (s *SQLiteSource) probe(ctx context.Context) error {
	if s.probed {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, s.table))
	if err != nil {
		return fmt.Errorf("table info %s: %w", s.table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %s not found in %s", s.table, s.path)
	}
	for _, c := range requiredColumns {
		if !cols[c] {
			return fmt.Errorf("table %s: missing column %s", s.table, c)
		}
	}
	s.hasID = cols["id"]
	s.probed = true
	return nil
}

// #endregion load
