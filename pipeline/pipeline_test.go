package pipeline

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(ExportTimeLayout, s)
	if err != nil {
		t.Fatalf("bad fixture time %q: %v", s, err)
	}
	return ts
}

// memSource serves a fixed Dataset, for tests.
type memSource struct {
	ds Dataset
}

func (s memSource) Load() (Dataset, error) { return s.ds, nil }

func table(name string, columns []string, rows ...[]string) *RawTable {
	return &RawTable{Name: name, Columns: columns, Rows: rows}
}

// fixtureDataset builds the canonical test dataset:
//
//	order-1  toys        delivered 3 days late   reviewed twice (4 then 5)
//	order-2  electronics delivered on time       reviewed once (3)
//	order-3  no review, not yet delivered
//	item for order-404 has no matching order (dropped)
//	item for order-3 references an unknown product (empty category)
func fixtureDataset() Dataset {
	return Dataset{
		TableOrders: table(TableOrders,
			[]string{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at", "order_delivered_customer_date", "order_estimated_delivery_date"},
			[]string{"order-1", "cust-1", "delivered", "2017-05-01 10:00:00", "2017-05-01 11:00:00", "2017-05-13 10:00:00", "2017-05-10 10:00:00"},
			[]string{"order-2", "cust-2", "delivered", "2017-05-02 09:30:00", "2017-05-02 10:00:00", "2017-05-08 09:30:00", "2017-05-10 09:30:00"},
			[]string{"order-3", "cust-1", "shipped", "2017-06-15 18:45:00", "2017-06-15 19:00:00", "", "2017-06-30 00:00:00"},
		),
		TableCustomers: table(TableCustomers,
			[]string{"customer_id", "customer_city", "customer_state"},
			[]string{"cust-1", "Sao Paulo", "sp"},
			[]string{"cust-2", "Rio de Janeiro", "rj"},
		),
		TableItems: table(TableItems,
			[]string{"order_id", "order_item_id", "product_id", "price", "freight_value"},
			[]string{"order-1", "1", "prod-toys", "100", "20"},
			[]string{"order-2", "1", "prod-elec", "250.5", "15.25"},
			[]string{"order-3", "1", "prod-ghost", "30", "5"},
			[]string{"order-404", "1", "prod-toys", "10", "1"},
		),
		TableProducts: table(TableProducts,
			[]string{"product_id", "product_category_name"},
			[]string{"prod-toys", "toys"},
			[]string{"prod-elec", "electronics"},
		),
		TableReviews: table(TableReviews,
			[]string{"review_id", "order_id", "review_score", "review_creation_date"},
			[]string{"rev-1a", "order-1", "4", "2017-05-14 08:00:00"},
			[]string{"rev-1b", "order-1", "5", "2017-05-20 08:00:00"},
			[]string{"rev-2", "order-2", "3", "2017-05-09 12:00:00"},
		),
	}
}

func TestBuildJoinPolicy(t *testing.T) {
	recs, report, err := Build(memSource{fixtureDataset()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// order-404's item is dropped, the other three survive.
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if report.Join.ItemsWithoutOrder != 1 {
		t.Errorf("ItemsWithoutOrder = %d, want 1", report.Join.ItemsWithoutOrder)
	}
	if report.Join.ItemsWithoutProduct != 1 {
		t.Errorf("ItemsWithoutProduct = %d, want 1", report.Join.ItemsWithoutProduct)
	}

	// Sorted by purchase time: order-1, order-2, order-3.
	if recs[0].OrderID != "order-1" || recs[1].OrderID != "order-2" || recs[2].OrderID != "order-3" {
		t.Fatalf("unexpected record order: %s, %s, %s", recs[0].OrderID, recs[1].OrderID, recs[2].OrderID)
	}

	// Unknown product → row kept, category empty.
	if recs[2].ProductCategory != "" {
		t.Errorf("order-3 category = %q, want empty", recs[2].ProductCategory)
	}

	// No review → null review fields.
	if recs[2].HasReview() || recs[2].ReviewBucket != "" || !recs[2].ReviewedAt.IsZero() {
		t.Errorf("order-3 should have null review fields, got score=%d bucket=%q", recs[2].ReviewScore, recs[2].ReviewBucket)
	}
}

func TestBuildDerivedColumns(t *testing.T) {
	recs, _, err := Build(memSource{fixtureDataset()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, rec := range recs {
		if rec.Revenue != rec.Price+rec.Freight {
			t.Errorf("%s: revenue = %v, want price+freight = %v", rec.OrderID, rec.Revenue, rec.Price+rec.Freight)
		}
	}

	late := recs[0] // order-1, delivered 2017-05-13 vs estimate 2017-05-10
	if !late.IsLate {
		t.Error("order-1 should be late")
	}
	if late.DelayDays != 3 {
		t.Errorf("order-1 delay = %v days, want 3", late.DelayDays)
	}
	if late.DeliveryDays != 12 {
		t.Errorf("order-1 delivery duration = %v days, want 12", late.DeliveryDays)
	}

	onTime := recs[1] // order-2, delivered 2 days before estimate
	if onTime.IsLate {
		t.Error("order-2 should not be late")
	}
	if onTime.DelayDays != -2 {
		t.Errorf("order-2 delay = %v days, want -2", onTime.DelayDays)
	}

	undelivered := recs[2]
	if undelivered.IsLate || undelivered.DelayDays != 0 || undelivered.DeliveryDays != 0 {
		t.Errorf("undelivered order-3 should carry zero delivery metrics, got late=%v delay=%v", undelivered.IsLate, undelivered.DelayDays)
	}

	// Customer attributes resolved and normalized.
	if recs[0].CustomerState != "SP" || recs[0].CustomerCity != "sao paulo" {
		t.Errorf("order-1 geography = %s/%s, want SP/sao paulo", recs[0].CustomerState, recs[0].CustomerCity)
	}
}

func TestBuildReviewDedupe(t *testing.T) {
	recs, report, err := Build(memSource{fixtureDataset()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// order-1 had two reviews: the later one (score 5) must win.
	if recs[0].ReviewScore != 5 {
		t.Errorf("order-1 review score = %d, want 5 (latest review)", recs[0].ReviewScore)
	}
	if recs[0].ReviewBucket != "positive" {
		t.Errorf("order-1 review bucket = %q, want positive", recs[0].ReviewBucket)
	}
	if report.Join.DuplicateReviews != 1 {
		t.Errorf("DuplicateReviews = %d, want 1", report.Join.DuplicateReviews)
	}
	if recs[1].ReviewScore != 3 || recs[1].ReviewBucket != "neutral" {
		t.Errorf("order-2 review = %d/%q, want 3/neutral", recs[1].ReviewScore, recs[1].ReviewBucket)
	}
}

func TestDedupeTieBreak(t *testing.T) {
	reviews := []Review{
		{ID: "rev-a", OrderID: "o", Score: 1, CreatedAt: mustTime(t, "2017-05-14 08:00:00")},
		{ID: "rev-b", OrderID: "o", Score: 2, CreatedAt: mustTime(t, "2017-05-14 08:00:00")},
	}
	winners, collapsed := latestReviews(reviews)
	if collapsed != 1 {
		t.Errorf("collapsed = %d, want 1", collapsed)
	}
	if winners["o"].ID != "rev-b" {
		t.Errorf("tie winner = %s, want rev-b (larger ID)", winners["o"].ID)
	}

	// Same input in the opposite order must pick the same winner.
	winners, _ = latestReviews([]Review{reviews[1], reviews[0]})
	if winners["o"].ID != "rev-b" {
		t.Errorf("tie winner after reorder = %s, want rev-b", winners["o"].ID)
	}
}

func TestValidateSchemaErrors(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		ds := fixtureDataset()
		delete(ds, TableReviews)
		_, _, err := Build(memSource{ds})
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("got %v, want *SchemaError", err)
		}
		if schemaErr.Table != TableReviews {
			t.Errorf("SchemaError.Table = %q, want %q", schemaErr.Table, TableReviews)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		ds := fixtureDataset()
		ds[TableItems] = table(TableItems,
			[]string{"order_id", "order_item_id", "product_id", "price"}, // freight_value gone
		)
		_, _, err := Build(memSource{ds})
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("got %v, want *SchemaError", err)
		}
		if schemaErr.Table != TableItems || schemaErr.Column != "freight_value" {
			t.Errorf("SchemaError = %s/%s, want order_items/freight_value", schemaErr.Table, schemaErr.Column)
		}
	})

	t.Run("malformed timestamp aborts", func(t *testing.T) {
		ds := fixtureDataset()
		ds[TableOrders].Rows[0][3] = "not-a-date"
		if _, _, err := Build(memSource{ds}); err == nil {
			t.Fatal("expected error for malformed purchase timestamp")
		}
	})
}
