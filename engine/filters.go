package engine

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// FILTERS — FilterSpec → filtered View
// ============================================================================
// Single pass: each row is checked against all constraints in one loop.
// Constraints are AND-combined; values within one constraint (several
// categories, several states) are OR-combined. A nil/empty constraint means
// no restriction. Filtering is pure and idempotent.
// ============================================================================

// DateRange bounds the purchase timestamp, inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FilterSpec is the set of user-chosen constraints applied before
// aggregation. Zero value = no filtering.
type FilterSpec struct {
	Dates      *DateRange `json:"dates,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	States     []string   `json:"states,omitempty"`
}

// IsEmpty reports whether the spec constrains anything.
func (s FilterSpec) IsEmpty() bool {
	return s.Dates == nil && len(s.Categories) == 0 && len(s.States) == 0
}

// FilterRangeError rejects an inverted date range. The range is never
// silently swapped.
type FilterRangeError struct {
	Start, End time.Time
}

func (e *FilterRangeError) Error() string {
	return fmt.Sprintf("filter: date range start %s after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// Apply returns the sub-view of rows matching every constraint in spec.
// The underlying table is untouched; all columns are preserved.
func Apply(view View, spec FilterSpec) (View, error) {
	if spec.Dates != nil && spec.Dates.Start.After(spec.Dates.End) {
		return View{}, &FilterRangeError{Start: spec.Dates.Start, End: spec.Dates.End}
	}
	if spec.IsEmpty() {
		return view, nil
	}

	categories := toLowerSet(spec.Categories)
	states := toLowerSet(spec.States)

	keep := make([]int, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		if spec.Dates != nil {
			if rec.PurchasedAt.Before(spec.Dates.Start) || rec.PurchasedAt.After(spec.Dates.End) {
				continue
			}
		}
		if categories != nil && !categories[strings.ToLower(rec.ProductCategory)] {
			continue
		}
		if states != nil && !states[strings.ToLower(rec.CustomerState)] {
			continue
		}
		keep = append(keep, i)
	}
	return view.narrow(keep), nil
}

// toLowerSet converts values to a lowercase lookup set. Nil when empty, so
// callers can distinguish "no constraint" from "constraint matching nothing".
func toLowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}
