// Package cartlens turns raw e-commerce order exports into a cleaned,
// analysis-ready table and serves chart-ready aggregates over it.
//
// Two stages, run separately:
//
//	raw tables ──cmd/prepare──▶ denormalized CSV ──cmd/dashboard──▶ JSON aggregates
//
// The pipeline package loads the raw source tables (orders, customers,
// order items, products, reviews), validates their schemas, joins them into
// one row per order-item, computes derived columns and writes the result
// atomically as a flat CSV export.
//
// The engine package loads that export once per session and answers
// filter/aggregate queries over it:
//
//	sess, err := engine.NewSession("out/orders.csv")
//	view, err := sess.Apply(engine.FilterSpec{Categories: []string{"toys"}})
//	series, err := engine.RevenueOverTime(view, engine.BucketDay)
//
// All queries are pure reads — the loaded table is never mutated, so every
// call is independently repeatable. Rendering is left to the consumer: the
// engine only computes small ordered tables.
package cartlens
