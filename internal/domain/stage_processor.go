package domain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
)

// StageProcessor applies the patch records of one stage, classifies the
// reports and writes reject artifacts for failed hunks. One processor serves
// one pipeline run: a reject artifact left by an earlier run is cleared the
// first time its target fails, and later failures append to it.
type StageProcessor struct {
	rejects  rejectWriter
	observer Observer
	// cleared holds reject paths already reset during this run.
	cleared map[m.Path]bool
}

// NewStageProcessor constructs a StageProcessor writing reject artifacts under
// rejectDir. A nil observer discards progress events.
func NewStageProcessor(fsAdapter adapter.SourceFSAdapter, rejectDir m.Path, observer Observer) *StageProcessor {
	if observer == nil {
		observer = nopObserver{}
	}

	return &StageProcessor{
		rejects:  rejectWriter{fsAdapter: fsAdapter, root: rejectDir},
		observer: observer,
		cleared:  map[m.Path]bool{},
	}
}

// ApplyStage applies records in order. A failed or fuzzed patch is recorded in
// the result; the returned error is reserved for failures that must abort the
// run.
func (p *StageProcessor) ApplyStage(ctx context.Context, name string, records []*PatchRecord) (m.StageResult, error) {
	result := &m.StageResult{Name: name}

	slog.Info("Applying patches for stage", "stage", name, "patches", len(records))

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return *result, err
		}

		reports, err := record.Apply(ctx)
		if err != nil {
			return *result, fmt.Errorf("apply %s: %w", record.Name, err)
		}

		for _, report := range reports {
			if err := p.handleReport(ctx, result, report); err != nil {
				return *result, err
			}

			result.Reports = append(result.Reports, report)
			p.observer.DisplayPatchReport(ctx, name, report)
		}
	}

	if result.Fuzzed {
		slog.Warn("Patches fuzzed", "stage", name)
	}

	return *result, nil
}

func (p *StageProcessor) handleReport(ctx context.Context, result *m.StageResult, report m.PatchReport) error {
	switch report.Status {
	case m.Failed:
		return p.handleFailed(ctx, result, report)

	case m.Fuzzed:
		result.Fuzzed = true

		slog.Info("Patching fuzzed", "target", DisplayTarget(report.Target))

		for _, hunk := range report.Hunks {
			if hunk.Status == m.Fuzzed {
				slog.Info("Hunk fuzzed", "hunk", hunk.ID, "fuzz", hunk.Fuzz, "offset", hunk.Offset)
			}
		}

		if result.Failure == nil {
			result.Failure = report.Failure
		}

	default:
		slog.Info("Patch succeeded", "target", DisplayTarget(report.Target))
	}

	return nil
}

func (p *StageProcessor) handleFailed(ctx context.Context, result *m.StageResult, report m.PatchReport) error {
	path, err := p.rejects.path(ctx, report.Target)
	if err != nil {
		return err
	}

	if !p.cleared[path] {
		if err := p.rejects.reset(ctx, path); err != nil {
			return err
		}

		p.cleared[path] = true
	}

	if !slices.Contains(result.Rejects, path) {
		result.Rejects = append(result.Rejects, path)
	}

	cause := report.Failure
	if cause == nil {
		cause = fmt.Errorf("%w: %s", patch.ErrPatchFailed, report.Target)
	}

	target := DisplayTarget(report.Target)
	slog.Error("Patching failed", "target", target, "error", cause)

	failed := 0

	for _, hunk := range report.Hunks {
		switch hunk.Status {
		case m.Failed:
			failed++

			slog.Error("Hunk rejected", "target", target, "hunk", hunk.ID, "error", hunk.Failure, "index", hunk.Index)
		case m.Fuzzed:
			slog.Info("Hunk fuzzed", "target", target, "hunk", hunk.ID, "fuzz", hunk.Fuzz)
		}
	}

	if err := p.rejects.append(ctx, path, report); err != nil {
		return err
	}

	abs, err := p.rejects.fsAdapter.AbsPath(ctx, path)
	if err != nil {
		abs = path
	}

	slog.Error("Hunks failed", "target", target, "failed", failed, "total", len(report.Hunks))
	slog.Error("Rejects written", "target", target, "path", abs)

	if result.Failure == nil {
		result.Failure = cause
	}

	return nil
}
