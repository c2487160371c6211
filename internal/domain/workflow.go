package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	"stagepatch.dev/pkg/stagepatch/internal/controller"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
)

// ErrPatchesFailed is returned by Run when patches were rejected and the run
// is configured to fail on rejects.
var ErrPatchesFailed = errors.New("patches failed")

// RunArgs contains the arguments for running the pipeline.
type RunArgs struct {
	Input        m.Path
	Output       m.Path
	Reports      m.Path
	Rejects      m.Path
	Stages       []m.Stage
	MaxFuzz      int
	AccessC14N   bool
	Parallel     int
	Exclude      []string
	FailOnReject bool
}

// ListArgs contains the arguments for listing the configured stages.
type ListArgs struct {
	Stages  []m.Stage
	Exclude []string
}

// ViewArgs contains the arguments for viewing the last run report.
type ViewArgs struct {
	Reports m.Path
}

// DiffArgs contains the arguments for comparing two trees.
type DiffArgs struct {
	Before m.Path
	After  m.Path
}

// Workflow defines the interface for the CLI-facing operations.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
	Diff(ctx context.Context, args DiffArgs) error
}

// EngineFactory builds the patch engine for a run.
type EngineFactory func(accessC14N bool) patch.Engine

// DefaultEngineFactory builds the contextual engine.
func DefaultEngineFactory(accessC14N bool) patch.Engine {
	return patch.NewContextualEngine(patch.WithAccessC14N(accessC14N))
}

type workflow struct {
	adapter.ReportStore
	adapter.SourceFSAdapter
	adapter.ArchiveAdapter
	controller.UI
	engines EngineFactory
	now     func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	archives adapter.ArchiveAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	engines EngineFactory,
) Workflow {
	if engines == nil {
		engines = DefaultEngineFactory
	}

	return &workflow{
		SourceFSAdapter: fsAdapter,
		ArchiveAdapter:  archives,
		ReportStore:     reportStore,
		UI:              ui,
		engines:         engines,
		now:             time.Now,
	}
}

// Run loads the input tree, runs every stage, writes the output archive and
// saves the run report.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	started := w.now()

	tree, err := LoadTree(ctx, w.SourceFSAdapter, w.ArchiveAdapter, args.Input)
	if err != nil {
		slog.Error("Failed to load input", "input", args.Input, "error", err)
		return fmt.Errorf("load input: %w", err)
	}

	slog.Info("Loaded input", "input", args.Input, "text", len(tree.Text), "resources", len(tree.Resources))

	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	pipeline := NewPipeline(w.SourceFSAdapter, w.ArchiveAdapter, w.engines(args.AccessC14N), w.UI, PipelineOptions{
		MaxFuzz:   args.MaxFuzz,
		Parallel:  args.Parallel,
		RejectDir: args.Rejects,
		Exclude:   args.Exclude,
	})

	result, runErr := pipeline.Run(ctx, tree, args.Stages)

	w.Close(ctx)

	if runErr == nil && args.Output != "" {
		if _, err := WriteTree(ctx, w.ArchiveAdapter, args.Output, tree); err != nil {
			runErr = fmt.Errorf("write output: %w", err)
		} else {
			slog.Info("Wrote output", "output", args.Output, "entries", tree.Len())
		}
	}

	if args.Reports != "" {
		if err := w.SaveReport(ctx, args.Reports, newRunReport(started, result)); err != nil {
			slog.Error("Failed to save report", "reports", args.Reports, "error", err)

			if runErr == nil {
				runErr = fmt.Errorf("save report: %w", err)
			}
		}
	}

	outcome := runErr
	if outcome == nil && args.FailOnReject {
		if failures := result.Err(); failures != nil {
			outcome = fmt.Errorf("%w: %w", ErrPatchesFailed, failures)
		}
	}

	if err := w.DisplayRunSummary(ctx, result, outcome); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return outcome
}

func newRunReport(started time.Time, result m.RunResult) m.RunReport {
	report := m.RunReport{
		Started: started.UTC().Format(time.RFC3339),
		Fuzzed:  result.Fuzzed(),
	}

	for _, stage := range result.Stages {
		report.Stages = append(report.Stages, m.NewStageReport(stage))
	}

	return report
}

// List enumerates the patch and injection files of every stage.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	sources, err := newSourceLoader(w.SourceFSAdapter, w.ArchiveAdapter, args.Exclude)
	if err != nil {
		return err
	}

	listings := make([]m.StageListing, 0, len(args.Stages))

	for _, stage := range args.Stages {
		listing, err := w.listStage(ctx, sources, stage)
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		listings = append(listings, listing)
	}

	if err := w.DisplayStages(ctx, listings); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) listStage(ctx context.Context, sources *sourceLoader, stage m.Stage) (m.StageListing, error) {
	listing := m.StageListing{Name: stage.Name, Snapshot: stage.SnapshotTarget}

	if stage.HasPatches() {
		files, err := sources.patchFiles(ctx, stage.PatchSource)

		switch {
		case errors.Is(err, fs.ErrNotExist):
			listing.Missing = append(listing.Missing, stage.PatchSource)
		case err != nil:
			return listing, err
		}

		for _, file := range files {
			listing.Patches++
			listing.Bytes += w.sizeOf(ctx, file.Origin, int64(len(file.Text)))
		}
	}

	for _, source := range stage.Inject {
		if _, err := w.FileInfo(ctx, source); errors.Is(err, fs.ErrNotExist) {
			listing.Missing = append(listing.Missing, source)
			continue
		}

		files, err := sources.injectFiles(ctx, source)
		if err != nil {
			return listing, err
		}

		for _, file := range files {
			listing.Injects++
			listing.Bytes += w.sizeOf(ctx, file.Origin, 0)
		}
	}

	return listing, nil
}

func (w *workflow) sizeOf(ctx context.Context, path m.Path, fallback int64) int64 {
	if path == "" {
		return fallback
	}

	info, err := w.FileInfo(ctx, path)
	if err != nil {
		return fallback
	}

	return info.Size()
}

// View displays the last saved run report.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// Diff loads two trees and displays their differences.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	before, err := LoadTree(ctx, w.SourceFSAdapter, w.ArchiveAdapter, args.Before)
	if err != nil {
		return err
	}

	after, err := LoadTree(ctx, w.SourceFSAdapter, w.ArchiveAdapter, args.After)
	if err != nil {
		return err
	}

	diffs, err := DiffTrees(before, after)
	if err != nil {
		return err
	}

	if err := w.DisplayDiff(ctx, diffs); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}
