package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// PatchSuffix selects patch files inside a patch source.
const PatchSuffix = ".patch"

// sourceLoader enumerates the patch files and injection files of a stage.
type sourceLoader struct {
	fsAdapter adapter.SourceFSAdapter
	archives  adapter.ArchiveAdapter
	exclude   []glob.Glob
}

func newSourceLoader(fsAdapter adapter.SourceFSAdapter, archives adapter.ArchiveAdapter, patterns []string) (*sourceLoader, error) {
	exclude, err := compileGlobs(patterns)
	if err != nil {
		return nil, err
	}

	return &sourceLoader{fsAdapter: fsAdapter, archives: archives, exclude: exclude}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		matchers = append(matchers, matcher)
	}

	return matchers, nil
}

// excluded reports whether a slash-separated relative path matches an
// exclude pattern.
func (l *sourceLoader) excluded(rel string) bool {
	for _, matcher := range l.exclude {
		if matcher.Match(rel) {
			return true
		}
	}

	return false
}

// patchFiles enumerates the .patch files of a patch source: recursively for a
// directory, entry by entry for an archive, the file itself otherwise.
func (l *sourceLoader) patchFiles(ctx context.Context, source m.Path) ([]m.PatchFile, error) {
	info, err := l.fsAdapter.FileInfo(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("patch source %s: %w", source, err)
	}

	switch {
	case info.IsDir():
		return l.patchFilesInDir(ctx, source)
	case l.archives.IsArchive(source):
		return l.patchFilesInArchive(ctx, source)
	case strings.HasSuffix(string(source), PatchSuffix):
		return []m.PatchFile{{Name: string(source), Origin: source}}, nil
	}

	slog.Debug("Patch source is not a patch file", "source", source)

	return nil, nil
}

func (l *sourceLoader) patchFilesInDir(ctx context.Context, root m.Path) ([]m.PatchFile, error) {
	var files []m.PatchFile

	err := l.fsAdapter.Walk(ctx, root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, PatchSuffix) {
			return nil
		}

		rel, err := l.fsAdapter.RelPath(ctx, root, m.Path(path))
		if err != nil {
			return err
		}

		if l.excluded(filepath.ToSlash(string(rel))) {
			slog.Debug("Excluded patch file", "file", path)
			return nil
		}

		files = append(files, m.PatchFile{Name: path, Origin: m.Path(path)})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk patch source %s: %w", root, err)
	}

	return files, nil
}

func (l *sourceLoader) patchFilesInArchive(ctx context.Context, archive m.Path) ([]m.PatchFile, error) {
	entries, err := l.archives.ReadArchive(ctx, archive)
	if err != nil {
		return nil, err
	}

	var files []m.PatchFile

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name, PatchSuffix) || l.excluded(entry.Name) {
			continue
		}

		files = append(files, m.PatchFile{
			Name: string(archive) + "!" + entry.Name,
			Text: string(entry.Content),
		})
	}

	return files, nil
}

// injectFiles enumerates an injection source in tree order. Paths are made
// relative to the directory, or to the parent of a single file. A missing
// source is skipped.
func (l *sourceLoader) injectFiles(ctx context.Context, source m.Path) ([]m.InjectFile, error) {
	info, err := l.fsAdapter.FileInfo(ctx, source)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Skipping missing injection source", "source", source)
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("injection source %s: %w", source, err)
	}

	if !info.IsDir() {
		return []m.InjectFile{{Origin: source, Relative: info.Name()}}, nil
	}

	var files []m.InjectFile

	err = l.fsAdapter.Walk(ctx, source, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := l.fsAdapter.RelPath(ctx, source, m.Path(path))
		if err != nil {
			return err
		}

		relative := filepath.ToSlash(string(rel))
		if l.excluded(relative) {
			slog.Debug("Excluded injection file", "file", path)
			return nil
		}

		files = append(files, m.InjectFile{Origin: m.Path(path), Relative: relative})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk injection source %s: %w", source, err)
	}

	return files, nil
}
