package adapter

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// archiveEpoch is the fixed modification time of written entries so that
// snapshots of identical trees are byte-identical.
var archiveEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// ArchiveEntry is one file stored in an archive.
type ArchiveEntry struct {
	Name    string
	Content []byte
}

// ArchiveAdapter reads and writes zip-format archives (zip and jar).
type ArchiveAdapter interface {
	// IsArchive reports whether path names a supported archive.
	IsArchive(path m.Path) bool

	// ReadArchive returns every file entry of the archive in stored order.
	ReadArchive(ctx context.Context, path m.Path) ([]ArchiveEntry, error)

	// WriteArchive replaces path with an archive holding entries in order.
	WriteArchive(ctx context.Context, path m.Path, entries []ArchiveEntry) error
}

// ZipArchiveAdapter implements ArchiveAdapter with archive/zip.
type ZipArchiveAdapter struct{}

// NewZipArchiveAdapter constructs a ZipArchiveAdapter.
func NewZipArchiveAdapter() *ZipArchiveAdapter {
	return &ZipArchiveAdapter{}
}

// IsArchive matches the .zip and .jar suffixes.
func (a *ZipArchiveAdapter) IsArchive(path m.Path) bool {
	ext := strings.ToLower(filepath.Ext(string(path)))
	return ext == ".zip" || ext == ".jar"
}

// ReadArchive loads every non-directory entry.
func (a *ZipArchiveAdapter) ReadArchive(ctx context.Context, path m.Path) ([]ArchiveEntry, error) {
	reader, err := zip.OpenReader(string(path))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	defer func() { _ = reader.Close() }()

	entries := make([]ArchiveEntry, 0, len(reader.File))

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if file.FileInfo().IsDir() {
			continue
		}

		content, err := readZipFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s in %s: %w", file.Name, path, err)
		}

		entries = append(entries, ArchiveEntry{Name: file.Name, Content: content})
	}

	return entries, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}

	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

// WriteArchive writes entries into a fresh archive at path.
func (a *ZipArchiveAdapter) WriteArchive(ctx context.Context, path m.Path, entries []ArchiveEntry) error {
	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: archiveEpoch,
		}

		w, err := writer.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("add %s to %s: %w", entry.Name, path, err)
		}

		if _, err := w.Write(entry.Content); err != nil {
			return fmt.Errorf("write %s to %s: %w", entry.Name, path, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish archive %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), buf.Bytes(), 0o600)
}
