package domain

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// RejectSuffix is appended to a target path to name its reject artifact.
const RejectSuffix = ".rej"

const (
	rejectHeader = "++++ REJECTED PATCH %d\n"
	rejectFooter = "++++ END PATCH\n"
)

// rejectWriter writes reject artifacts beside their patch targets. A non-empty
// root is prepended to every artifact path.
type rejectWriter struct {
	fsAdapter adapter.SourceFSAdapter
	root      m.Path
}

// path returns the reject artifact location for a patch header target: the
// target as written in the header with RejectSuffix appended.
func (w rejectWriter) path(ctx context.Context, target string) (m.Path, error) {
	if _, err := Strip(target); err != nil {
		return "", err
	}

	local := filepath.FromSlash(strings.ReplaceAll(target, "\\", "/"))
	if w.root != "" {
		local = string(w.fsAdapter.JoinPath(ctx, string(w.root), local))
	}

	return m.Path(local + RejectSuffix), nil
}

// reset deletes a stale reject artifact left by a previous run.
func (w rejectWriter) reset(ctx context.Context, path m.Path) error {
	return w.fsAdapter.Remove(ctx, path)
}

// append writes one block per failed hunk of report, in ascending hunk id.
func (w rejectWriter) append(ctx context.Context, path m.Path, report m.PatchReport) error {
	failed := make([]m.HunkReport, 0, len(report.Hunks))

	for _, hunk := range report.Hunks {
		if hunk.Status == m.Failed {
			failed = append(failed, hunk)
		}
	}

	slices.SortStableFunc(failed, func(a, b m.HunkReport) int {
		return cmp.Compare(a.ID, b.ID)
	})

	content := FormatRejects(failed)
	if content == "" {
		return nil
	}

	if err := w.fsAdapter.AppendFile(ctx, path, []byte(content)); err != nil {
		return fmt.Errorf("write rejects %s: %w", path, err)
	}

	return nil
}

// FormatRejects renders the reject blocks of hunks in the given order.
func FormatRejects(hunks []m.HunkReport) string {
	var b strings.Builder

	for _, hunk := range hunks {
		fmt.Fprintf(&b, rejectHeader, hunk.ID)
		b.WriteString(strings.Join(hunk.Lines, "\n"))
		b.WriteString("\n")
		b.WriteString(rejectFooter)
	}

	return b.String()
}
