package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
)

// Observer receives progress events while the pipeline runs.
type Observer interface {
	DisplayStageStarted(ctx context.Context, index, total int, stage m.Stage)
	DisplayPatchReport(ctx context.Context, stage string, report m.PatchReport)
	DisplayStageCompleted(ctx context.Context, result m.StageResult)
}

type nopObserver struct{}

func (nopObserver) DisplayStageStarted(context.Context, int, int, m.Stage)     {}
func (nopObserver) DisplayPatchReport(context.Context, string, m.PatchReport) {}
func (nopObserver) DisplayStageCompleted(context.Context, m.StageResult)      {}

// PipelineOptions holds the run-wide settings of a Pipeline.
type PipelineOptions struct {
	// MaxFuzz is the fuzz tolerance shared by every stage.
	MaxFuzz int
	// Parallel bounds how many patch files are read at once. Zero means no limit.
	Parallel int
	// RejectDir prefixes every reject artifact path. Empty writes each
	// artifact beside its patch target.
	RejectDir m.Path
	Exclude   []string
}

// Pipeline applies stages to a SourceTree in declaration order.
type Pipeline interface {
	Run(ctx context.Context, tree *m.SourceTree, stages []m.Stage) (m.RunResult, error)
}

type pipeline struct {
	fsAdapter adapter.SourceFSAdapter
	archives  adapter.ArchiveAdapter
	engine    patch.Engine
	observer  Observer
	options   PipelineOptions
}

// NewPipeline creates a Pipeline with the provided dependencies. A nil
// observer discards progress events.
func NewPipeline(
	fsAdapter adapter.SourceFSAdapter,
	archives adapter.ArchiveAdapter,
	engine patch.Engine,
	observer Observer,
	options PipelineOptions,
) Pipeline {
	if observer == nil {
		observer = nopObserver{}
	}

	return &pipeline{
		fsAdapter: fsAdapter,
		archives:  archives,
		engine:    engine,
		observer:  observer,
		options:   options,
	}
}

// stageRunner holds the per-run collaborators shared by every stage.
type stageRunner struct {
	*pipeline
	tree      *m.SourceTree
	sources   *sourceLoader
	records   recordLoader
	processor *StageProcessor
}

// Run mutates tree through every stage. Patch failures are recorded in the
// result and do not stop the run; the returned error reports an abort.
func (p *pipeline) Run(ctx context.Context, tree *m.SourceTree, stages []m.Stage) (m.RunResult, error) {
	sources, err := newSourceLoader(p.fsAdapter, p.archives, p.options.Exclude)
	if err != nil {
		return m.RunResult{}, err
	}

	runner := &stageRunner{
		pipeline: p,
		tree:     tree,
		sources:  sources,
		records: recordLoader{
			fsAdapter: p.fsAdapter,
			engine:    p.engine,
			maxFuzz:   p.options.MaxFuzz,
			parallel:  p.options.Parallel,
		},
		processor: NewStageProcessor(p.fsAdapter, p.options.RejectDir, p.observer),
	}

	var run m.RunResult

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		p.observer.DisplayStageStarted(ctx, i, len(stages), stage)

		result, err := runner.run(ctx, stage)
		run.Stages = append(run.Stages, result)

		if err != nil {
			slog.Error("Stage aborted", "stage", stage.Name, "error", err)
			return run, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		p.observer.DisplayStageCompleted(ctx, result)
	}

	slog.Info("Pipeline done", "stages", len(stages), "fuzzed", run.Fuzzed(), "failed", run.Err() != nil)

	return run, nil
}

// run applies the stage's patches, writes its snapshot, then injects its files.
// The snapshot does not include files injected by the same stage.
func (r *stageRunner) run(ctx context.Context, stage m.Stage) (m.StageResult, error) {
	result := m.StageResult{Name: stage.Name}

	if stage.HasPatches() {
		patched, err := r.patch(ctx, stage)
		if err != nil {
			return patched, err
		}

		result = patched
	}

	if stage.HasSnapshot() {
		slog.Info("Exporting snapshot", "stage", stage.Name, "target", stage.SnapshotTarget)

		size, err := WriteTree(ctx, r.archives, stage.SnapshotTarget, r.tree)
		if err != nil {
			return result, fmt.Errorf("snapshot: %w", err)
		}

		slog.Debug("Snapshot written", "target", stage.SnapshotTarget, "entries", r.tree.Len(), "size", humanize.Bytes(uint64(size)))

		result.Snapshot = stage.SnapshotTarget
	}

	if stage.HasInjections() {
		slog.Info("Injecting files", "stage", stage.Name, "sources", len(stage.Inject))

		if err := r.inject(ctx, stage, &result); err != nil {
			return result, fmt.Errorf("inject: %w", err)
		}
	}

	return result, nil
}

func (r *stageRunner) patch(ctx context.Context, stage m.Stage) (m.StageResult, error) {
	slog.Info("Reading patches", "stage", stage.Name, "source", stage.PatchSource)

	files, err := r.sources.patchFiles(ctx, stage.PatchSource)
	if err != nil {
		return m.StageResult{Name: stage.Name}, err
	}

	records, err := r.records.load(ctx, files, NewContextAccessor(r.tree))
	if err != nil {
		return m.StageResult{Name: stage.Name}, err
	}

	return r.processor.ApplyStage(ctx, stage.Name, records)
}

// inject upserts every injection file into the tree. A later file at the same
// path replaces the earlier one.
func (r *stageRunner) inject(ctx context.Context, stage m.Stage, result *m.StageResult) error {
	for _, source := range stage.Inject {
		files, err := r.sources.injectFiles(ctx, source)
		if err != nil {
			return err
		}

		for _, file := range files {
			content, err := r.fsAdapter.ReadFile(ctx, file.Origin)
			if err != nil {
				return fmt.Errorf("read %s: %w", file.Origin, err)
			}

			r.tree.Put(file.Relative, content)

			if m.IsText(file.Relative) {
				result.Text++
			} else {
				result.Resources++
			}
		}
	}

	slog.Debug("Injected files", "stage", stage.Name, "text", result.Text, "resources", result.Resources)

	return nil
}
