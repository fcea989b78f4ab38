package api

import (
	"net/http"

	"github.com/cartlens-org/cartlens/engine"
)

// NewRouter wires the dashboard endpoints over one loaded session and
// returns an http.Handler. This is the API composition root — handlers only
// see the engine's session, never files or flags.
func NewRouter(sess *engine.Session, m *Metrics) http.Handler {
	mux := http.NewServeMux()

	h := &Handlers{Sess: sess}

	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/filters", h.Filters)
	mux.HandleFunc("/summary", h.Summary)
	mux.HandleFunc("/series/revenue", h.RevenueSeries)
	mux.HandleFunc("/categories/orders", h.CategoryOrders)
	mux.HandleFunc("/categories/revenue", h.CategoryRevenue)
	mux.HandleFunc("/categories/reviews", h.CategoryReviews)
	mux.HandleFunc("/states", h.States)

	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}

	return observe(m, mux)
}
