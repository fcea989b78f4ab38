package pipeline

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// writeRawSQLite materializes a Dataset as a SQLite database with one TEXT
// table per entity, mirroring how the public datasets ship.
func writeRawSQLite(t *testing.T, path string, ds Dataset) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for name, tbl := range ds {
		cols := make([]string, len(tbl.Columns))
		marks := make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			cols[i] = `"` + c + `" TEXT`
			marks[i] = "?"
		}
		if _, err := db.Exec(`CREATE TABLE "` + name + `" (` + strings.Join(cols, ", ") + `)`); err != nil {
			t.Fatal(err)
		}
		insert := `INSERT INTO "` + name + `" VALUES (` + strings.Join(marks, ", ") + `)`
		for _, row := range tbl.Rows {
			args := make([]any, len(row))
			for i, v := range row {
				args[i] = v
			}
			if _, err := db.Exec(insert, args...); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestSQLiteSourceRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "raw.db")
	writeRawSQLite(t, dbPath, fixtureDataset())

	out := filepath.Join(dir, "orders.csv")
	report, err := Run(SQLiteSource{Path: dbPath}, out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Exported != 3 {
		t.Errorf("exported %d rows, want 3", report.Exported)
	}

	// Both adapters feed the same path: the SQLite-sourced export matches
	// the in-memory one byte for byte.
	recs, _, err := Build(memSource{fixtureDataset()})
	if err != nil {
		t.Fatal(err)
	}
	fromDB, err := ReadExportFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(fromDB) != len(recs) {
		t.Fatalf("sqlite export has %d rows, memory build has %d", len(fromDB), len(recs))
	}
	for i := range recs {
		if fromDB[i] != recs[i] {
			t.Errorf("row %d differs between sqlite and memory source:\n%+v\n%+v", i, fromDB[i], recs[i])
		}
	}
}

func TestSQLiteSourceMissingTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "raw.db")
	ds := fixtureDataset()
	delete(ds, TableReviews)
	writeRawSQLite(t, dbPath, ds)

	_, err := SQLiteSource{Path: dbPath}.Load()
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("got %v, want *SchemaError", err)
	}
	if schemaErr.Table != TableReviews {
		t.Errorf("SchemaError.Table = %q, want %q", schemaErr.Table, TableReviews)
	}
}

func TestSQLiteSourceMissingFile(t *testing.T) {
	_, err := SQLiteSource{Path: filepath.Join(t.TempDir(), "nope.db")}.Load()
	if err == nil {
		t.Error("expected error for missing database file")
	}
}
