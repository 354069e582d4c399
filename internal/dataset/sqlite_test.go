package dataset

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T, ddl string, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "examples.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO examples (id, purpose_label, behavior_label, alignment_label) VALUES (?, ?, ?, ?)`,
			r...,
		); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func openSource(t *testing.T, path, table string) *SQLiteSource {
	t.Helper()
	src, err := NewSQLiteSource(path, table)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

// #endregion helpers

// #region load-tests
func TestSQLiteSource_Load(t *testing.T) {
	path := setupDB(t, Schema, [][]any{
		{"ex-1", "PUR_PROTEST", "BEH_REFUSE", "aligned"},
		{"ex-2", "PUR_INFORM", "BEH_STATE", "aligned"},
		{nil, "PUR_PROTEST", "BEH_COMPLY", "misaligned"},
	})
	src := openSource(t, path, "")

	examples, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, examples, 3)
	assert.Equal(t, Example{ID: "ex-1", Purpose: "PUR_PROTEST", Behavior: "BEH_REFUSE", Alignment: "aligned"}, examples[0])
	assert.Equal(t, "", examples[2].ID)
	assert.Equal(t, "misaligned", examples[2].Alignment)
	assert.Equal(t, path+"#examples", src.Describe())
}

func TestSQLiteSource_RowIDWhenNoIDColumn(t *testing.T) {
	ddl := `CREATE TABLE examples (purpose_label TEXT, behavior_label TEXT, alignment_label TEXT, id_unused TEXT)`
	path := filepath.Join(t.TempDir(), "noid.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(ddl)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO examples (purpose_label, behavior_label, alignment_label) VALUES ('A', 'B', 'aligned'), ('C', 'D', 'misaligned')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	examples, err := openSource(t, path, "examples").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, "1", examples[0].ID)
	assert.Equal(t, "2", examples[1].ID)
}

func TestSQLiteSource_NullLabel(t *testing.T) {
	path := setupDB(t, Schema, [][]any{
		{"ex-1", "PUR_INFORM", "BEH_STATE", "aligned"},
		{"ex-2", "PUR_INFORM", nil, "aligned"},
	})

	_, err := openSource(t, path, "").Load(context.Background())
	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, 2, mf.Line)
	assert.Equal(t, "ex-2", mf.ID)
	assert.Equal(t, FieldBehavior, mf.Field)
}

func TestSQLiteSource_MissingColumn(t *testing.T) {
	path := setupDB(t, `CREATE TABLE examples (id TEXT, purpose_label TEXT, behavior_label TEXT, alignment_label TEXT);
		CREATE TABLE partial (id TEXT, purpose_label TEXT)`, nil)

	_, err := openSource(t, path, "partial").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column behavior_label")
}

func TestSQLiteSource_UnknownTable(t *testing.T) {
	path := setupDB(t, Schema, nil)
	_, err := openSource(t, path, "nope").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table nope not found")
}

func TestNewSQLiteSource_InvalidTableName(t *testing.T) {
	_, err := NewSQLiteSource("whatever.db", "examples; DROP TABLE x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestNewSQLiteSource_MissingFile(t *testing.T) {
	_, err := NewSQLiteSource(filepath.Join(t.TempDir(), "absent.db"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

// #endregion load-tests
