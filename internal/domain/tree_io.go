package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// TreeEntries returns the archive entries of tree in lexical path order.
func TreeEntries(tree *m.SourceTree) []adapter.ArchiveEntry {
	paths := tree.Paths()
	entries := make([]adapter.ArchiveEntry, 0, len(paths))

	for _, path := range paths {
		content, _ := tree.Get(path)
		entries = append(entries, adapter.ArchiveEntry{Name: path, Content: content})
	}

	return entries
}

// WriteTree writes every entry of tree to an archive at target and returns the
// uncompressed size written.
func WriteTree(ctx context.Context, archives adapter.ArchiveAdapter, target m.Path, tree *m.SourceTree) (int, error) {
	entries := TreeEntries(tree)

	size := 0
	for _, entry := range entries {
		size += len(entry.Content)
	}

	if err := archives.WriteArchive(ctx, target, entries); err != nil {
		return 0, err
	}

	return size, nil
}

// LoadTree builds a SourceTree from an archive or a directory.
func LoadTree(ctx context.Context, fsAdapter adapter.SourceFSAdapter, archives adapter.ArchiveAdapter, source m.Path) (*m.SourceTree, error) {
	info, err := fsAdapter.FileInfo(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", source, err)
	}

	tree := m.NewSourceTree()

	if !info.IsDir() {
		if !archives.IsArchive(source) {
			return nil, fmt.Errorf("input %s: not a directory or archive", source)
		}

		entries, err := archives.ReadArchive(ctx, source)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			tree.Put(entry.Name, entry.Content)
		}

		return tree, nil
	}

	err = fsAdapter.Walk(ctx, source, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := fsAdapter.RelPath(ctx, source, m.Path(path))
		if err != nil {
			return err
		}

		content, err := fsAdapter.ReadFile(ctx, m.Path(path))
		if err != nil {
			return err
		}

		tree.Put(filepath.ToSlash(string(rel)), content)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load input %s: %w", source, err)
	}

	return tree, nil
}
