package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

const diffContext = 3

// DiffTrees compares two trees path by path in lexical order.
func DiffTrees(before, after *m.SourceTree) ([]m.FileDiff, error) {
	var diffs []m.FileDiff

	for _, path := range mergePaths(before.Paths(), after.Paths()) {
		old, inOld := before.Get(path)
		cur, inNew := after.Get(path)

		switch {
		case !inOld:
			diffs = append(diffs, m.FileDiff{Path: path, Kind: m.Added})
		case !inNew:
			diffs = append(diffs, m.FileDiff{Path: path, Kind: m.Removed})
		case !bytes.Equal(old, cur):
			diff := m.FileDiff{Path: path, Kind: m.Changed}

			if m.IsText(path) {
				unified, err := unifiedDiff(path, string(old), string(cur))
				if err != nil {
					return nil, err
				}

				diff.Unified = unified
			}

			diffs = append(diffs, diff)
		}
	}

	return diffs, nil
}

func unifiedDiff(path, old, cur string) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(old),
		B:        difflib.SplitLines(cur),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}

	return strings.TrimSuffix(text, "\n"), nil
}

// mergePaths merges two sorted path lists without duplicates.
func mergePaths(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			merged = append(merged, a[i])
			i++
		case a[i] > b[j]:
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}

	merged = append(merged, a[i:]...)

	return append(merged, b[j:]...)
}
