package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// nearestWindow bounds how far from the expected position a failed hunk looks
// for its closest candidate when building the failure message.
const nearestWindow = 50

var accessModifiers = regexp.MustCompile(`\b(public|protected|private)\s+`)

// find returns the index closest to expected where pattern matches lines, or -1.
// Later positions are tried before earlier ones at the same distance.
func (e *ContextualEngine) find(lines, pattern []string, expected int) int {
	last := len(lines) - len(pattern)
	if last < 0 {
		return -1
	}

	expected = clamp(expected, 0, last)

	for dist := 0; expected-dist >= 0 || expected+dist <= last; dist++ {
		if pos := expected + dist; pos <= last && e.matchesAt(lines, pattern, pos) {
			return pos
		}

		if dist == 0 {
			continue
		}

		if pos := expected - dist; pos >= 0 && e.matchesAt(lines, pattern, pos) {
			return pos
		}
	}

	return -1
}

func (e *ContextualEngine) matchesAt(lines, pattern []string, pos int) bool {
	for i, want := range pattern {
		if !e.equal(lines[pos+i], want) {
			return false
		}
	}

	return true
}

func (e *ContextualEngine) equal(got, want string) bool {
	if got == want {
		return true
	}

	if !e.accessC14N {
		return false
	}

	return canonicalAccess(got) == canonicalAccess(want)
}

func canonicalAccess(line string) string {
	return accessModifiers.ReplaceAllString(line, "")
}

// describeFailure explains a failed hunk, naming the closest candidate block
// near the expected position by edit distance.
func (e *ContextualEngine) describeFailure(lines []string, hunk Hunk, old []string, expected int) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: hunk %d: target is empty", ErrHunkFailed, hunk.ID)
	}

	if len(old) == 0 {
		return fmt.Errorf("%w: hunk %d: nothing to match", ErrHunkFailed, hunk.ID)
	}

	line, distance := nearest(lines, old, expected)

	return fmt.Errorf("%w: hunk %d expected at line %d, closest match at line %d (edit distance %d)",
		ErrHunkFailed, hunk.ID, expected+1, line+1, distance)
}

// nearest scans the windows around expected and returns the start index with
// the lowest Levenshtein distance to pattern.
func nearest(lines, pattern []string, expected int) (int, int) {
	dmp := diffmatchpatch.New()
	want := strings.Join(pattern, "\n")

	last := max(len(lines)-len(pattern), 0)
	from := clamp(expected-nearestWindow, 0, last)
	to := clamp(expected+nearestWindow, 0, last)

	best, bestDistance := from, -1

	for pos := from; pos <= to; pos++ {
		end := min(pos+len(pattern), len(lines))
		got := strings.Join(lines[pos:end], "\n")

		distance := dmp.DiffLevenshtein(dmp.DiffMain(want, got, false))
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = pos, distance
		}
	}

	return best, bestDistance
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}
