package engine

import (
	"github.com/cartlens-org/cartlens/pipeline"
)

// ============================================================================
// VIEW — Zero-copy windows over the loaded export
// ============================================================================
// The engine never owns or mutates the loaded table. A View is either the
// whole table or an index list into it; filtering produces a new View and
// copies no rows. Aggregates read through At() in tight loops.
// ============================================================================

// View is a read-only projection of denormalized records.
// A nil index slice means the full table.
type View struct {
	recs    []pipeline.Record
	indices []int
	sub     bool
}

// NewView wraps a record slice as a full View.
func NewView(recs []pipeline.Record) View {
	return View{recs: recs}
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	if v.sub {
		return len(v.indices)
	}
	return len(v.recs)
}

// At returns the i-th row of the view. The pointer aliases the loaded
// table — callers must treat it as read-only.
func (v View) At(i int) *pipeline.Record {
	if v.sub {
		return &v.recs[v.indices[i]]
	}
	return &v.recs[i]
}

// narrow produces a sub-view over the given parent indices.
// Indices are relative to this view, translated to table positions so
// nested narrowing stays flat.
func (v View) narrow(keep []int) View {
	if v.sub {
		translated := make([]int, len(keep))
		for i, k := range keep {
			translated[i] = v.indices[k]
		}
		keep = translated
	}
	return View{recs: v.recs, indices: keep, sub: true}
}
