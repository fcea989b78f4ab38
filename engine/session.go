package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/cartlens-org/cartlens/pipeline"
)

// ============================================================================
// SESSION — Scoped handle over one loaded export
// ============================================================================
// The export is loaded once at session start and held read-only for the
// session's lifetime. No package-level state: callers own the handle and
// release it with Close. Every query goes back to the full table — nothing
// accumulates between calls.
// ============================================================================

// Session holds one loaded export table.
type Session struct {
	recs []pipeline.Record
}

// NewSession loads the flat export at path into memory.
func NewSession(path string) (*Session, error) {
	recs, err := pipeline.ReadExportFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{recs: recs}, nil
}

// NewSessionFromRecords wraps an in-memory record set, bypassing file I/O.
func NewSessionFromRecords(recs []pipeline.Record) *Session {
	return &Session{recs: recs}
}

// Len returns the number of loaded rows.
func (s *Session) Len() int { return len(s.recs) }

// View returns the full-table view.
func (s *Session) View() View { return NewView(s.recs) }

// Apply filters the full table by spec.
func (s *Session) Apply(spec FilterSpec) (View, error) {
	return Apply(s.View(), spec)
}

// Close releases the loaded table. The session must not be used afterwards.
func (s *Session) Close() { s.recs = nil }

// Categories returns the distinct product categories, sorted.
// The empty category (unresolved product join) is omitted — it is not a
// value a filter control should offer.
func (s *Session) Categories() []string {
	return s.distinct(func(r *pipeline.Record) string { return r.ProductCategory })
}

// States returns the distinct customer states, sorted.
func (s *Session) States() []string {
	return s.distinct(func(r *pipeline.Record) string { return r.CustomerState })
}

// Bounds returns the earliest and latest purchase timestamps, for seeding a
// date range picker. Zero times when the table is empty.
func (s *Session) Bounds() (min, max time.Time) {
	for i := range s.recs {
		ts := s.recs[i].PurchasedAt
		if min.IsZero() || ts.Before(min) {
			min = ts
		}
		if ts.After(max) {
			max = ts
		}
	}
	return min, max
}

func (s *Session) distinct(key func(*pipeline.Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range s.recs {
		v := key(&s.recs[i])
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
