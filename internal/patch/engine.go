package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

var (
	// ErrTargetNotFound is returned by a Provider when the target has no content.
	ErrTargetNotFound = errors.New("target not found")
	// ErrHunkFailed marks a hunk that could not be matched within the fuzz tolerance.
	ErrHunkFailed = errors.New("hunk failed")
	// ErrPatchFailed marks a file patch with at least one failed hunk.
	ErrPatchFailed = errors.New("patch failed")
)

// Provider gives an engine read and write access to patch targets by their
// header path.
type Provider interface {
	Read(target string) ([]string, error)
	Write(target string, lines []string) error
}

// Engine applies a unified diff through a Provider.
//
// Hunk failures are reported in the returned reports. A returned error means
// the patch could not be processed at all (malformed text, provider I/O).
type Engine interface {
	Apply(ctx context.Context, text string, provider Provider, maxFuzz int) ([]m.PatchReport, error)
}

// Option configures a ContextualEngine.
type Option func(*ContextualEngine)

// WithAccessC14N makes line comparison ignore Java access modifiers.
func WithAccessC14N(enabled bool) Option {
	return func(e *ContextualEngine) {
		e.accessC14N = enabled
	}
}

// ContextualEngine matches hunks by their context lines, searching outward
// from the expected position and dropping outer context lines up to the fuzz
// tolerance.
type ContextualEngine struct {
	accessC14N bool
}

// NewContextualEngine constructs a ContextualEngine.
func NewContextualEngine(options ...Option) *ContextualEngine {
	engine := &ContextualEngine{}
	for _, option := range options {
		option(engine)
	}

	return engine
}

// Apply parses text and applies every file patch it contains. Writes are
// committed through the provider as each file completes.
func (e *ContextualEngine) Apply(ctx context.Context, text string, provider Provider, maxFuzz int) ([]m.PatchReport, error) {
	if maxFuzz < 0 {
		return nil, fmt.Errorf("negative fuzz tolerance %d", maxFuzz)
	}

	patches, err := Parse(text)
	if err != nil {
		return nil, err
	}

	reports := make([]m.PatchReport, 0, len(patches))

	for _, filePatch := range patches {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		report, err := e.applyFile(filePatch, provider, maxFuzz)
		if err != nil {
			return reports, err
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func (e *ContextualEngine) applyFile(filePatch FilePatch, provider Provider, maxFuzz int) (m.PatchReport, error) {
	target := filePatch.Target()

	lines, err := provider.Read(target)

	switch {
	case errors.Is(err, ErrTargetNotFound) && filePatch.IsCreation():
		lines = nil
	case errors.Is(err, ErrTargetNotFound):
		return failAll(filePatch, fmt.Errorf("%w: %s", ErrTargetNotFound, target)), nil
	case err != nil:
		return m.PatchReport{}, err
	}

	report := m.PatchReport{Target: target, Hunks: make([]m.HunkReport, 0, len(filePatch.Hunks))}
	delta := 0
	applied := 0

	for _, hunk := range filePatch.Hunks {
		var hunkReport m.HunkReport

		lines, hunkReport = e.applyHunk(lines, hunk, &delta, maxFuzz)
		if hunkReport.Status != m.Failed {
			applied++
		}

		report.Hunks = append(report.Hunks, hunkReport)
	}

	if applied > 0 {
		if err := provider.Write(target, lines); err != nil {
			return m.PatchReport{}, err
		}
	}

	report.Status = m.WorstStatus(report.Hunks)
	if report.Status == m.Failed {
		failed := report.CountHunks(m.Failed)
		report.Failure = fmt.Errorf("%w: %s: %d/%d hunks", ErrPatchFailed, target, failed, len(report.Hunks))
	}

	slog.Debug("Applied file patch", "target", target, "status", report.Status, "hunks", len(report.Hunks))

	return report, nil
}

// applyHunk applies one hunk and returns the updated lines. delta carries the
// line shift produced by earlier hunks of the same file.
func (e *ContextualEngine) applyHunk(lines []string, hunk Hunk, delta *int, maxFuzz int) ([]string, m.HunkReport) {
	report := m.HunkReport{ID: hunk.ID, Index: -1, Lines: hunk.Lines()}

	old, replacement := hunk.Old(), hunk.New()
	lead, trail := hunk.leadingContext(), hunk.trailingContext()
	expected := expectedIndex(hunk) + *delta

	for fuzz := 0; fuzz <= maxFuzz; fuzz++ {
		if fuzz > 0 && fuzz > lead && fuzz > trail {
			break
		}

		dropLead, dropTrail := min(fuzz, lead), min(fuzz, trail)
		if dropLead+dropTrail > len(old) {
			break
		}

		pattern := old[dropLead : len(old)-dropTrail]

		pos := e.find(lines, pattern, expected+dropLead)
		if pos < 0 {
			continue
		}

		start := pos - dropLead
		lines = splice(lines, pos, len(pattern), hunk.merge(lines[pos:pos+len(pattern)], dropLead, dropTrail))

		report.Index = start
		report.Offset = start - expected
		report.Status = m.Success

		if fuzz > 0 {
			report.Status = m.Fuzzed
			report.Fuzz = fuzz
		}

		*delta += report.Offset + len(replacement) - len(old)

		return lines, report
	}

	report.Status = m.Failed
	report.Failure = e.describeFailure(lines, hunk, old, expected)

	return lines, report
}

// expectedIndex converts the hunk's old start line into a 0-based index. A
// hunk that removes nothing inserts after its start line.
func expectedIndex(hunk Hunk) int {
	if hunk.OldLines == 0 {
		return hunk.OldStart
	}

	return hunk.OldStart - 1
}

// splice replaces count lines at index with replacement.
func splice(lines []string, index, count int, replacement []string) []string {
	result := make([]string, 0, len(lines)-count+len(replacement))
	result = append(result, lines[:index]...)
	result = append(result, replacement...)

	return append(result, lines[index+count:]...)
}

func failAll(filePatch FilePatch, cause error) m.PatchReport {
	report := m.PatchReport{
		Target:  filePatch.Target(),
		Status:  m.Failed,
		Failure: cause,
		Hunks:   make([]m.HunkReport, 0, len(filePatch.Hunks)),
	}

	for _, hunk := range filePatch.Hunks {
		report.Hunks = append(report.Hunks, m.HunkReport{
			ID:      hunk.ID,
			Status:  m.Failed,
			Index:   -1,
			Failure: cause,
			Lines:   hunk.Lines(),
		})
	}

	return report
}
