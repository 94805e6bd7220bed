// path: src/changes_test.go
package src

import (
	"strings"
	"testing"
)

func TestDiffPrettyEqualContentIsEmpty(t *testing.T) {
	tr := NewChangeTracker()
	if d := tr.DiffPretty("a.txt", "same\n", "same\n"); d != "" {
		t.Fatalf("expected empty diff, got %q", d)
	}
}

func TestDiffPrettyShowsAddsAndRemoves(t *testing.T) {
	tr := NewChangeTracker()
	oldS := "one\ntwo\nthree\n"
	newS := "one\n2\nthree\n"

	d := tr.DiffPretty("a.txt", oldS, newS)
	if !strings.Contains(d, "diff --git a/a.txt b/a.txt") {
		t.Fatalf("missing header:\n%s", d)
	}
	if !strings.Contains(d, "-two") {
		t.Fatalf("missing removal:\n%s", d)
	}
	if !strings.Contains(d, "+2") {
		t.Fatalf("missing addition:\n%s", d)
	}
}

func TestDiffPrettyNewFile(t *testing.T) {
	tr := NewChangeTracker()
	d := tr.DiffPretty("new.txt", "", "line one\nline two\n")
	if !strings.Contains(d, "+line one") || !strings.Contains(d, "+line two") {
		t.Fatalf("new file diff incomplete:\n%s", d)
	}
}

func TestDiffAllAcrossGenerations(t *testing.T) {
	tr := NewChangeTracker()

	first := map[string]string{"a.txt": "one\n", "b.txt": "x\n"}
	if d := tr.DiffAll(first); d != "" {
		t.Fatalf("first generation should seed silently, got %q", d)
	}

	second := map[string]string{"a.txt": "two\n", "b.txt": "x\n"}
	d := tr.DiffAll(second)
	if !strings.Contains(d, "diff --git a/a.txt b/a.txt") {
		t.Fatalf("missing changed file header:\n%s", d)
	}
	if strings.Contains(d, "b.txt") {
		t.Fatalf("unchanged file diffed:\n%s", d)
	}

	// Snapshot replaced: the same map again produces no diff.
	if d := tr.DiffAll(second); d != "" {
		t.Fatalf("identical generation should be empty, got %q", d)
	}
}

func TestChangeTrackerRecordAndPrevious(t *testing.T) {
	tr := NewChangeTracker()
	tr.Record("a.txt", "v1")
	if got, ok := tr.Previous("a.txt"); !ok || got != "v1" {
		t.Fatalf("previous = %q %v", got, ok)
	}
	tr.Record("a.txt", "")
	if _, ok := tr.Previous("a.txt"); ok {
		t.Fatalf("deletion not recorded")
	}
}
