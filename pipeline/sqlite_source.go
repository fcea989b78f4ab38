package pipeline

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// SQLiteSource loads the raw tables from a SQLite database file with one
// table per entity. The public order datasets ship in this form as well as
// CSV; both adapters feed the same validation and parsing path, so the
// declared schemas apply identically.
type SQLiteSource struct {
	Path string
}

// Load reads every raw table via SELECT *. Cell values are stringified and
// typed downstream by the normalization step, exactly as with CSV input.
func (s SQLiteSource) Load() (Dataset, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("sqlite source: %w", err)
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite source: %w", err)
	}
	defer db.Close()

	ds := make(Dataset, len(tableNames))
	for _, name := range tableNames {
		t, err := readSQLiteTable(db, name)
		if err != nil {
			return nil, err
		}
		ds[name] = t
	}
	return ds, nil
}

func readSQLiteTable(db *sql.DB, name string) (*RawTable, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("sqlite source: %w", err)
	}
	if exists == 0 {
		return nil, &SchemaError{Table: name}
	}

	rows, err := db.Query(`SELECT * FROM ` + quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("sqlite source: query %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite source: columns of %s: %w", name, err)
	}

	t := &RawTable{Name: name, Columns: cols}

	values := make([]sql.NullString, len(cols))
	scan := make([]any, len(cols))
	for i := range values {
		scan[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("sqlite source: scan %s: %w", name, err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite source: read %s: %w", name, err)
	}
	return t, nil
}

// quoteIdent wraps a table name in double quotes. Table names come from the
// fixed tableNames list, the quoting only guards against reserved words.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
