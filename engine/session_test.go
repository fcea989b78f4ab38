package engine

import (
	"path/filepath"
	"testing"

	"github.com/cartlens-org/cartlens/pipeline"
)

func writtenExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := pipeline.WriteExport(path, testRecords(t)); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	return path
}

func TestNewSessionRoundTrip(t *testing.T) {
	sess, err := NewSession(writtenExport(t))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer sess.Close()

	if sess.Len() != 3 {
		t.Fatalf("session holds %d rows, want 3", sess.Len())
	}

	// Loaded rows match what was written, including derived columns.
	want := testRecords(t)
	view := sess.View()
	for i := 0; i < view.Len(); i++ {
		if *view.At(i) != want[i] {
			t.Errorf("row %d differs after round trip:\nwrote %+v\nread  %+v", i, want[i], *view.At(i))
		}
	}
}

func TestSessionFilterValues(t *testing.T) {
	sess := NewSessionFromRecords(testRecords(t))

	cats := sess.Categories()
	if len(cats) != 2 || cats[0] != "electronics" || cats[1] != "toys" {
		t.Errorf("categories = %v, want [electronics toys]", cats)
	}

	states := sess.States()
	if len(states) != 2 || states[0] != "RJ" || states[1] != "SP" {
		t.Errorf("states = %v, want [RJ SP]", states)
	}

	min, max := sess.Bounds()
	if min.Format("2006-01-02") != "2017-05-01" || max.Format("2006-01-02") != "2017-06-15" {
		t.Errorf("bounds = %s..%s, want 2017-05-01..2017-06-15", min, max)
	}
}

func TestSessionBoundsEmpty(t *testing.T) {
	sess := NewSessionFromRecords(nil)
	min, max := sess.Bounds()
	if !min.IsZero() || !max.IsZero() {
		t.Errorf("empty session bounds = %s..%s, want zero times", min, max)
	}
	if got := sess.Categories(); len(got) != 0 {
		t.Errorf("empty session categories = %v", got)
	}
}

func TestSessionClose(t *testing.T) {
	sess := NewSessionFromRecords(testRecords(t))
	sess.Close()
	if sess.Len() != 0 {
		t.Errorf("closed session still holds %d rows", sess.Len())
	}
}

func TestSessionMissingExport(t *testing.T) {
	if _, err := NewSession(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing export file")
	}
}
