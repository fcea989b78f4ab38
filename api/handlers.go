package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cartlens-org/cartlens/engine"
)

// dateParam is the wire format of filter date boundaries.
const dateParam = "2006-01-02"

// Handlers exposes the query layer's aggregates as JSON endpoints.
// Every request recomputes from the session's table — no state is kept
// between requests.
type Handlers struct {
	Sess *engine.Session
}

// Health provides a minimal liveness check endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "rows": h.Sess.Len()})
}

// Filters returns the values the UI's filter controls can offer: distinct
// categories and states plus the purchase date bounds.
func (h *Handlers) Filters(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	min, max := h.Sess.Bounds()
	res := struct {
		Categories []string `json:"categories"`
		States     []string `json:"states"`
		MinDate    string   `json:"minDate"`
		MaxDate    string   `json:"maxDate"`
	}{
		Categories: h.Sess.Categories(),
		States:     h.Sess.States(),
	}
	if !min.IsZero() {
		res.MinDate = min.Format(dateParam)
		res.MaxDate = max.Format(dateParam)
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Summary returns the headline totals for the filtered view.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}
	res := struct {
		Totals   engine.Totals `json:"totals"`
		AvgDelay float64       `json:"avgDelayDays"`
	}{
		Totals:   engine.Summarize(view),
		AvgDelay: engine.AvgDelay(view),
	}
	writeJSON(w, r, http.StatusOK, res)
}

// RevenueSeries returns the revenue-over-time series.
// Query param "bucket" selects day (default) or month granularity.
func (h *Handlers) RevenueSeries(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}
	bucket := engine.Bucket(r.URL.Query().Get("bucket"))
	if bucket == "" {
		bucket = engine.BucketDay
	}
	series, err := engine.RevenueOverTime(view, bucket)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		Bucket engine.Bucket `json:"bucket"`
		Series engine.Series `json:"series"`
	}{bucket, series})
}

// CategoryOrders returns per-category sales volume, busiest first.
func (h *Handlers) CategoryOrders(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, categoriesResponse{engine.OrderCountByCategory(view)})
}

// CategoryRevenue returns per-category revenue, highest first.
func (h *Handlers) CategoryRevenue(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, categoriesResponse{engine.RevenueByCategory(view)})
}

// CategoryReviews returns average review scores per category, best first.
func (h *Handlers) CategoryReviews(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		Categories []engine.CategoryScore `json:"categories"`
	}{engine.AvgReviewScoreByCategory(view)})
}

// States returns the geographic distribution by customer state.
func (h *Handlers) States(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		States []engine.StateStat `json:"states"`
	}{engine.StateDistribution(view)})
}

type categoriesResponse struct {
	Categories []engine.CategoryStat `json:"categories"`
}

// filteredView parses the request's filter params and applies them.
// Writes the error response itself and returns ok=false on bad input.
func (h *Handlers) filteredView(w http.ResponseWriter, r *http.Request) (engine.View, bool) {
	if !allowGet(w, r) {
		return engine.View{}, false
	}
	spec, err := parseFilterSpec(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return engine.View{}, false
	}
	view, err := h.Sess.Apply(spec)
	if err != nil {
		var rangeErr *engine.FilterRangeError
		if errors.As(err, &rangeErr) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return engine.View{}, false
		}
		log.Printf("apply filters failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return engine.View{}, false
	}
	return view, true
}

// parseFilterSpec reads from/to/category/state query params.
// from and to are dates; to is widened to the end of its day so both
// boundary days are included.
func parseFilterSpec(r *http.Request) (engine.FilterSpec, error) {
	q := r.URL.Query()
	var spec engine.FilterSpec

	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		if from == "" || to == "" {
			return spec, fmt.Errorf("filter: from and to must be given together")
		}
		start, err := time.Parse(dateParam, from)
		if err != nil {
			return spec, fmt.Errorf("filter: bad from date %q", from)
		}
		end, err := time.Parse(dateParam, to)
		if err != nil {
			return spec, fmt.Errorf("filter: bad to date %q", to)
		}
		end = end.Add(24*time.Hour - time.Second)
		spec.Dates = &engine.DateRange{Start: start, End: end}
	}

	spec.Categories = multiParam(q["category"])
	spec.States = multiParam(q["state"])
	return spec, nil
}

// multiParam accepts both repeated params and comma-separated lists.
func multiParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
