package pipeline

import (
	"fmt"
	"log"
)

// ============================================================================
// PIPELINE — load → validate → normalize → join → export
// ============================================================================
// Runs once, offline. Deterministic: identical inputs produce a
// byte-identical export. Any schema violation aborts the run; unresolved
// mandatory foreign keys drop rows and are reported, never hidden.
// ============================================================================

// Report summarizes one pipeline run.
type Report struct {
	Orders    int       `json:"orders"`
	Customers int       `json:"customers"`
	Items     int       `json:"items"`
	Products  int       `json:"products"`
	Reviews   int       `json:"reviews"`
	Exported  int       `json:"exported"`
	Join      JoinStats `json:"join"`
}

// Run executes the full pipeline: loads raw tables from src, builds the
// denormalized record set and writes it atomically to outPath.
func Run(src Source, outPath string) (*Report, error) {
	recs, report, err := Build(src)
	if err != nil {
		return nil, err
	}
	if err := WriteExport(outPath, recs); err != nil {
		return nil, err
	}
	return report, nil
}

// Build produces the denormalized record set without writing it, so callers
// (and tests) can inspect the rows directly.
func Build(src Source) ([]Record, *Report, error) {
	ds, err := src.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load raw tables: %w", err)
	}

	if err := Validate(ds); err != nil {
		return nil, nil, err
	}

	orders, err := parseOrders(ds[TableOrders])
	if err != nil {
		return nil, nil, err
	}
	customers := parseCustomers(ds[TableCustomers])
	items, err := parseItems(ds[TableItems])
	if err != nil {
		return nil, nil, err
	}
	products := parseProducts(ds[TableProducts])
	reviews, err := parseReviews(ds[TableReviews])
	if err != nil {
		return nil, nil, err
	}

	recs, stats := buildRecords(orders, customers, items, products, reviews)

	if stats.Dropped() > 0 {
		log.Printf("join integrity: %s", stats)
	}

	report := &Report{
		Orders:    len(orders),
		Customers: len(customers),
		Items:     len(items),
		Products:  len(products),
		Reviews:   len(reviews),
		Exported:  len(recs),
		Join:      stats,
	}
	return recs, report, nil
}
