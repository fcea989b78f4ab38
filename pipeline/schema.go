package pipeline

import (
	"fmt"
)

// ============================================================================
// SCHEMA — Declared columns per raw table, checked before any parsing
// ============================================================================
// The source data is loosely typed (CSV cells, SQLite TEXT columns). Instead
// of coercing silently, every required column is declared here and checked
// up front: a missing table or column is a SchemaError that aborts the run
// with the offending table/column named.
// ============================================================================

// SchemaError reports a missing raw table or a missing required column.
type SchemaError struct {
	Table  string
	Column string // empty when the whole table is missing
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema: missing table %q", e.Table)
	}
	return fmt.Sprintf("schema: table %q missing required column %q", e.Table, e.Column)
}

// requiredColumns declares the columns each raw table must carry.
// Optional columns (e.g. order delivery timestamps) are not listed: they
// parse as null when absent from a row, but the column itself must exist.
var requiredColumns = map[string][]string{
	TableOrders: {
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	},
	TableCustomers: {
		"customer_id", "customer_city", "customer_state",
	},
	TableItems: {
		"order_id", "order_item_id", "product_id", "price", "freight_value",
	},
	TableProducts: {
		"product_id", "product_category_name",
	},
	TableReviews: {
		"review_id", "order_id", "review_score", "review_creation_date",
	},
}

// Validate checks a Dataset against the declared schemas.
// Returns the first violation as a *SchemaError.
func Validate(ds Dataset) error {
	for _, name := range tableNames {
		t, ok := ds[name]
		if !ok || t == nil {
			return &SchemaError{Table: name}
		}
		for _, col := range requiredColumns[name] {
			if t.Col(col) < 0 {
				return &SchemaError{Table: name, Column: col}
			}
		}
	}
	return nil
}
