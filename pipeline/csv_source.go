package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVSource loads the raw tables from a directory of per-entity CSV files
// (orders.csv, customers.csv, order_items.csv, products.csv, reviews.csv).
type CSVSource struct {
	Dir string
}

// Load reads every raw table. A missing file surfaces as a SchemaError for
// that table, matching how a missing database table is reported.
func (s CSVSource) Load() (Dataset, error) {
	ds := make(Dataset, len(tableNames))
	for _, name := range tableNames {
		path := filepath.Join(s.Dir, name+".csv")
		t, err := readCSVTable(name, path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &SchemaError{Table: name}
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		ds[name] = t
	}
	return ds, nil
}

func readCSVTable(name, path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows read as empty via RawTable.Field

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file, no header", name)
	}
	return &RawTable{
		Name:    name,
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}
