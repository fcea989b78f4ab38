package engine

import (
	"fmt"
	"sort"
)

// ============================================================================
// AGGREGATORS — Filtered View → small ordered tables
// ============================================================================
// Every aggregate is a pure, total function of its view: an empty view
// yields zero counts and empty series, never an error. Ordering is always
// deterministic — value descending, ties broken alphabetically — so two
// identical calls produce identical tables.
// ============================================================================

// Bucket selects the time granularity of a series.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketMonth Bucket = "month"
)

// layout returns the period key format for a bucket. Keys sort
// lexicographically in chronological order.
func (b Bucket) layout() (string, error) {
	switch b {
	case BucketDay:
		return "2006-01-02", nil
	case BucketMonth:
		return "2006-01", nil
	default:
		return "", fmt.Errorf("aggregate: unknown bucket %q", b)
	}
}

// TimePoint is one period of a revenue/order series.
type TimePoint struct {
	Period  string  `json:"period"`
	Orders  int     `json:"orders"` // distinct orders purchased in the period
	Revenue float64 `json:"revenue"`
}

// Series is an ordered (chronological) sequence of TimePoints.
type Series []TimePoint

// RevenueOverTime buckets the view by purchase time and reports distinct
// order count and summed revenue per period.
func RevenueOverTime(view View, bucket Bucket) (Series, error) {
	layout, err := bucket.layout()
	if err != nil {
		return nil, err
	}

	type acc struct {
		orders  map[string]bool
		revenue float64
	}
	periods := make(map[string]*acc)
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		key := rec.PurchasedAt.Format(layout)
		a, ok := periods[key]
		if !ok {
			a = &acc{orders: make(map[string]bool)}
			periods[key] = a
		}
		a.orders[rec.OrderID] = true
		a.revenue += rec.Revenue
	}

	series := make(Series, 0, len(periods))
	for key, a := range periods {
		series = append(series, TimePoint{
			Period:  key,
			Orders:  len(a.orders),
			Revenue: a.revenue,
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })
	return series, nil
}

// CategoryStat summarizes one product category.
type CategoryStat struct {
	Category string  `json:"category"`
	Orders   int     `json:"orders"` // distinct orders
	Items    int     `json:"items"`  // order-item rows
	Revenue  float64 `json:"revenue"`
}

// OrderCountByCategory returns per-category sales volume, busiest first.
func OrderCountByCategory(view View) []CategoryStat {
	stats := categoryStats(view)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Items != stats[j].Items {
			return stats[i].Items > stats[j].Items
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

// RevenueByCategory returns per-category revenue, highest first.
func RevenueByCategory(view View) []CategoryStat {
	stats := categoryStats(view)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Revenue != stats[j].Revenue {
			return stats[i].Revenue > stats[j].Revenue
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

func categoryStats(view View) []CategoryStat {
	type acc struct {
		orders  map[string]bool
		items   int
		revenue float64
	}
	byCat := make(map[string]*acc)
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		a, ok := byCat[rec.ProductCategory]
		if !ok {
			a = &acc{orders: make(map[string]bool)}
			byCat[rec.ProductCategory] = a
		}
		a.orders[rec.OrderID] = true
		a.items++
		a.revenue += rec.Revenue
	}

	stats := make([]CategoryStat, 0, len(byCat))
	for cat, a := range byCat {
		stats = append(stats, CategoryStat{
			Category: cat,
			Orders:   len(a.orders),
			Items:    a.items,
			Revenue:  a.revenue,
		})
	}
	return stats
}

// CategoryScore is the average review score of one category.
type CategoryScore struct {
	Category string  `json:"category"`
	Reviews  int     `json:"reviews"`
	AvgScore float64 `json:"avgScore"`
}

// AvgReviewScoreByCategory averages review scores per category, best first.
// Rows without a review are excluded from the average; a category whose rows
// carry no reviews reports zero reviews and a zero score.
func AvgReviewScoreByCategory(view View) []CategoryScore {
	type acc struct {
		sum   int
		count int
	}
	byCat := make(map[string]*acc)
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		a, ok := byCat[rec.ProductCategory]
		if !ok {
			a = &acc{}
			byCat[rec.ProductCategory] = a
		}
		if rec.HasReview() {
			a.sum += rec.ReviewScore
			a.count++
		}
	}

	scores := make([]CategoryScore, 0, len(byCat))
	for cat, a := range byCat {
		s := CategoryScore{Category: cat, Reviews: a.count}
		if a.count > 0 {
			s.AvgScore = float64(a.sum) / float64(a.count)
		}
		scores = append(scores, s)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].AvgScore != scores[j].AvgScore {
			return scores[i].AvgScore > scores[j].AvgScore
		}
		return scores[i].Category < scores[j].Category
	})
	return scores
}

// StateStat summarizes one customer state.
type StateStat struct {
	State   string  `json:"state"`
	Orders  int     `json:"orders"`
	Items   int     `json:"items"`
	Revenue float64 `json:"revenue"`
}

// StateDistribution returns per-state order volume and revenue, largest
// order count first.
func StateDistribution(view View) []StateStat {
	type acc struct {
		orders  map[string]bool
		items   int
		revenue float64
	}
	byState := make(map[string]*acc)
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		a, ok := byState[rec.CustomerState]
		if !ok {
			a = &acc{orders: make(map[string]bool)}
			byState[rec.CustomerState] = a
		}
		a.orders[rec.OrderID] = true
		a.items++
		a.revenue += rec.Revenue
	}

	stats := make([]StateStat, 0, len(byState))
	for state, a := range byState {
		stats = append(stats, StateStat{
			State:   state,
			Orders:  len(a.orders),
			Items:   a.items,
			Revenue: a.revenue,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Orders != stats[j].Orders {
			return stats[i].Orders > stats[j].Orders
		}
		return stats[i].State < stats[j].State
	})
	return stats
}

// Totals are the headline metrics of a filtered view.
type Totals struct {
	Orders  int     `json:"orders"` // distinct orders
	Items   int     `json:"items"`
	Revenue float64 `json:"revenue"`
}

// Summarize computes the headline totals of a view.
func Summarize(view View) Totals {
	orders := make(map[string]bool)
	t := Totals{}
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		orders[rec.OrderID] = true
		t.Items++
		t.Revenue += rec.Revenue
	}
	t.Orders = len(orders)
	return t
}

// AvgDelay returns the mean delay in days across late-delivered rows.
// Zero when the view contains no late deliveries.
func AvgDelay(view View) float64 {
	var sum float64
	var n int
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		if rec.IsLate {
			sum += rec.DelayDays
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// TopN returns the first n entries of an ordered stat slice (copy).
func TopN[T any](stats []T, n int) []T {
	if n > len(stats) {
		n = len(stats)
	}
	out := make([]T, n)
	copy(out, stats[:n])
	return out
}

// BottomN returns the last n entries in reverse order, so a
// descending-sorted input yields its smallest entries ascending — the shape
// the bottom-performers chart wants.
func BottomN[T any](stats []T, n int) []T {
	if n > len(stats) {
		n = len(stats)
	}
	out := make([]T, 0, n)
	for i := len(stats) - 1; i >= len(stats)-n; i-- {
		out = append(out, stats[i])
	}
	return out
}
