package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
)

// PatchRecord is a validated patch file bound to the engine, the accessor and
// the fuzz tolerance it will be applied with.
type PatchRecord struct {
	Name     string
	Text     string
	engine   patch.Engine
	provider patch.Provider
	maxFuzz  int
}

// Apply runs the record through its engine. Reports are tagged with the
// record name.
func (r *PatchRecord) Apply(ctx context.Context) ([]m.PatchReport, error) {
	reports, err := r.engine.Apply(ctx, r.Text, r.provider, r.maxFuzz)
	for i := range reports {
		reports[i].Source = r.Name
	}

	return reports, err
}

// recordLoader turns discovered patch files into PatchRecords.
type recordLoader struct {
	fsAdapter adapter.SourceFSAdapter
	engine    patch.Engine
	maxFuzz   int
	parallel  int
}

// load reads and parses files concurrently and returns records in input
// order. Parsing up front rejects malformed patch files before anything is
// applied.
func (l recordLoader) load(ctx context.Context, files []m.PatchFile, provider patch.Provider) ([]*PatchRecord, error) {
	records := make([]*PatchRecord, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	if l.parallel > 0 {
		group.SetLimit(l.parallel)
	}

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			slog.Debug("Reading patch file", "file", file.Name)

			text := file.Text
			if file.Origin != "" {
				content, err := l.fsAdapter.ReadFile(groupCtx, file.Origin)
				if err != nil {
					return fmt.Errorf("read %s: %w", file.Name, err)
				}

				text = string(content)
			}

			if _, err := patch.Parse(text); err != nil {
				return fmt.Errorf("parse %s: %w", file.Name, err)
			}

			records[i] = &PatchRecord{
				Name:     file.Name,
				Text:     text,
				engine:   l.engine,
				provider: provider,
				maxFuzz:  l.maxFuzz,
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}
