package pipeline

// ============================================================================
// RAW SOURCES — Where the normalized input tables come from
// ============================================================================
// The pipeline never reaches into files or databases directly. A Source
// loads the five raw tables into a Dataset; everything downstream works on
// that in-memory snapshot.
//
// Implementations:
//   CSVSource    — directory of per-entity CSV files
//   SQLiteSource — SQLite database file with one table per entity
// ============================================================================

// Canonical raw table names. Sources must key their Dataset by these.
const (
	TableOrders    = "orders"
	TableCustomers = "customers"
	TableItems     = "order_items"
	TableProducts  = "products"
	TableReviews   = "reviews"
)

// tableNames lists all required raw tables in load order.
var tableNames = []string{TableOrders, TableCustomers, TableItems, TableProducts, TableReviews}

// RawTable is one untyped source table: a header plus string cells.
// Typing happens later, against the declared schema.
type RawTable struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int // column name → position, built lazily
}

// Col returns the position of a named column, or -1 if absent.
func (t *RawTable) Col(name string) int {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			t.index[c] = i
		}
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Field returns the cell at (row, column name). Missing columns and short
// rows read as "".
func (t *RawTable) Field(row []string, name string) string {
	i := t.Col(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Dataset is a full set of raw tables keyed by canonical table name.
type Dataset map[string]*RawTable

// Source loads raw tables from wherever they live.
type Source interface {
	Load() (Dataset, error)
}
