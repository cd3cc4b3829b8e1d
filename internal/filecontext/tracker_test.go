package filecontext

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestTrackerEvictsOldestFirst(t *testing.T) {
	tr := NewTracker()
	for i := 1; i <= 5; i++ {
		tr.Add(FileContext{
			Filename:  fmt.Sprintf("file%d.fasta", i),
			Timestamp: time.Unix(int64(i), 0),
			Summary:   "s",
		})
	}
	got := tr.Snapshot()
	if len(got) != MaxEntries {
		t.Fatalf("want %d entries, got %d", MaxEntries, len(got))
	}
	for i, want := range []string{"file3.fasta", "file4.fasta", "file5.fasta"} {
		if got[i].Filename != want {
			t.Fatalf("entry %d: want %s, got %s", i, want, got[i].Filename)
		}
	}
}

func TestTrackerBoundsContentAndDerivesSummary(t *testing.T) {
	tr := NewTracker()
	content := "ATCGATCG first line\nsecond line\n" + strings.Repeat("A", 10*1024)
	tr.Add(FileContext{Filename: "seq.fasta", Content: content})
	got := tr.Snapshot()[0]
	if len(got.Content) > 8*1024 {
		t.Fatalf("content not bounded: %d bytes", len(got.Content))
	}
	if got.Summary != "ATCGATCG first line" {
		t.Fatalf("unexpected derived summary: %q", got.Summary)
	}
}

func TestTrackerKeepsSuppliedSummary(t *testing.T) {
	tr := NewTracker()
	tr.Add(FileContext{Filename: "doc.pdf", Content: "body", Summary: "a research paper"})
	if got := tr.Snapshot()[0].Summary; got != "a research paper" {
		t.Fatalf("summary overwritten: %q", got)
	}
}

func TestTrackerRestoreAppliesCap(t *testing.T) {
	tr := NewTracker()
	var entries []FileContext
	for i := 1; i <= 5; i++ {
		entries = append(entries, FileContext{Filename: fmt.Sprintf("f%d", i)})
	}
	tr.Restore(entries)
	got := tr.Snapshot()
	if len(got) != MaxEntries {
		t.Fatalf("want %d after restore, got %d", MaxEntries, len(got))
	}
	if got[0].Filename != "f3" || got[2].Filename != "f5" {
		t.Fatalf("restore kept wrong window: %+v", got)
	}
}

func TestTrackerSnapshotIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Add(FileContext{Filename: "orig"})
	snap := tr.Snapshot()
	snap[0].Filename = "mutated"
	if tr.Snapshot()[0].Filename != "orig" {
		t.Fatalf("internal state mutated via snapshot")
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Add(FileContext{Filename: "f"})
	tr.Reset()
	if tr.Len() != 0 {
		t.Fatalf("reset did not clear tracker")
	}
}
