// path: src/changes.go
package src

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ChangeTracker remembers each file's content across generations and
// computes unified diffs between them.
type ChangeTracker struct {
	mu   sync.Mutex
	prev map[string]string
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{prev: make(map[string]string)}
}

// Record saves the latest content for a path. Empty marks a deletion.
func (t *ChangeTracker) Record(rel, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if content == "" {
		delete(t.prev, rel)
		return
	}
	t.prev[rel] = content
}

// Previous returns the last recorded content of a path.
func (t *ChangeTracker) Previous(rel string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.prev[rel]
	return c, ok
}

// DiffAll diffs an incoming generation against the recorded snapshot and
// then replaces the snapshot with it. Only files present in both with
// changed content produce output; the first call seeds the baseline and
// returns "".
func (t *ChangeTracker) DiffAll(files map[string]string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		if old, ok := t.prev[p]; ok && old != files[p] {
			b.WriteString(t.DiffPretty(p, old, files[p]))
		}
	}

	next := make(map[string]string, len(files))
	for p, c := range files {
		next[p] = c
	}
	t.prev = next
	return b.String()
}

// edit represents a single line change in a diff.
type edit struct {
	tag string // " " same, "+" add, "-" del
	txt string
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	raw := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range raw {
		raw[i] = strings.TrimRight(raw[i], "\r")
	}
	return raw
}

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// DiffPretty prints a colorized git-style unified diff between two
// versions of a file.
func (t *ChangeTracker) DiffPretty(rel, oldS, newS string) string {
	if oldS == newS {
		return ""
	}

	oldLines := splitLines(oldS)
	newLines := splitLines(newS)
	n, m := len(oldLines), len(newLines)

	// Build LCS table.
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	// Collect edits.
	var seq []edit
	i, j := 0, 0
	for i < n && j < m {
		if oldLines[i] == newLines[j] {
			seq = append(seq, edit{" ", oldLines[i]})
			i++
			j++
		} else if lcs[i+1][j] >= lcs[i][j+1] {
			seq = append(seq, edit{"-", oldLines[i]})
			i++
		} else {
			seq = append(seq, edit{"+", newLines[j]})
			j++
		}
	}
	for ; i < n; i++ {
		seq = append(seq, edit{"-", oldLines[i]})
	}
	for ; j < m; j++ {
		seq = append(seq, edit{"+", newLines[j]})
	}

	oldHash := shortSHA(oldS)
	newHash := shortSHA(newS)
	var out strings.Builder

	out.WriteString(fmt.Sprintf("%sdiff --git a/%s b/%s%s\n", colorBold+colorCyan, rel, rel, colorReset))
	out.WriteString(fmt.Sprintf("index %s..%s 100644\n", oldHash, newHash))
	out.WriteString(fmt.Sprintf("%s--- a/%s%s\n", colorCyan, rel, colorReset))
	out.WriteString(fmt.Sprintf("%s+++ b/%s%s\n", colorCyan, rel, colorReset))

	const ctx = 3
	var hunk []edit
	var startOld, startNew int
	countOld, countNew := 0, 0

	printHunk := func() {
		if len(hunk) == 0 {
			return
		}
		out.WriteString(fmt.Sprintf("%s@@ -%d,%d +%d,%d @@%s\n",
			colorCyan, startOld+1, countOld, startNew+1, countNew, colorReset))
		for _, e := range hunk {
			switch e.tag {
			case "+":
				out.WriteString(fmt.Sprintf("%s+%s%s\n", colorGreen, e.txt, colorReset))
			case "-":
				out.WriteString(fmt.Sprintf("%s-%s%s\n", colorRed, e.txt, colorReset))
			default:
				out.WriteString(fmt.Sprintf("%s %s%s\n", colorGray, e.txt, colorReset))
			}
		}
		hunk = hunk[:0]
	}

	inHunk := false
	for idx := range seq {
		e := seq[idx]
		if e.tag != " " {
			if !inHunk {
				inHunk = true
				startOld = maxInt(0, idx-ctx)
				startNew = startOld
				hunk = append(hunk, seq[maxInt(0, idx-ctx):idx]...)
				countOld, countNew = 0, 0
			}
			hunk = append(hunk, e)
			if e.tag != "+" {
				countOld++
			}
			if e.tag != "-" {
				countNew++
			}
		} else if inHunk {
			hunk = append(hunk, e)
			countOld++
			countNew++

			end := idx + ctx + 1
			if end > len(seq) {
				end = len(seq)
			}
			next := seq[idx+1 : end]
			if len(hunk) > 0 && !hasChangeAhead(next) {
				printHunk()
				inHunk = false
			}
		}
	}
	if inHunk {
		printHunk()
	}

	return out.String()
}

// shortSHA returns a short SHA1-like index label for diff headers.
func shortSHA(s string) string {
	h := sha1.Sum([]byte(s))
	return fmt.Sprintf("%x", h[:3])
}

// hasChangeAhead checks if the next few edits contain +/-
func hasChangeAhead(next []edit) bool {
	for _, e := range next {
		if e.tag == "+" || e.tag == "-" {
			return true
		}
	}
	return false
}
