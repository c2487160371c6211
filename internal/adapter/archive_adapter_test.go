package adapter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

func TestZipArchiveAdapter_IsArchive(t *testing.T) {
	adapter := NewZipArchiveAdapter()

	tests := []struct {
		path string
		want bool
	}{
		{"src.zip", true},
		{"src.jar", true},
		{"SRC.JAR", true},
		{"patches", false},
		{"fix.patch", false},
		{"archive.tar.gz", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, adapter.IsArchive(m.Path(tt.path)))
		})
	}
}

func TestZipArchiveAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := NewZipArchiveAdapter()

	path := m.Path(filepath.Join(t.TempDir(), "out", "snapshot.zip"))
	entries := []ArchiveEntry{
		{Name: "pkg/A.java", Content: []byte("class A {}\n")},
		{Name: "pkg/data.bin", Content: []byte{0x00, 0x01, 0xff}},
	}

	require.NoError(t, adapter.WriteArchive(ctx, path, entries))

	got, err := adapter.ReadArchive(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestZipArchiveAdapter_WriteIsDeterministic(t *testing.T) {
	ctx := context.Background()
	adapter := NewZipArchiveAdapter()
	root := t.TempDir()

	entries := []ArchiveEntry{{Name: "A.java", Content: []byte("class A {}\n")}}

	first := m.Path(filepath.Join(root, "first.zip"))
	second := m.Path(filepath.Join(root, "second.zip"))

	require.NoError(t, adapter.WriteArchive(ctx, first, entries))
	require.NoError(t, adapter.WriteArchive(ctx, second, entries))

	a, err := os.ReadFile(string(first))
	require.NoError(t, err)
	b, err := os.ReadFile(string(second))
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b))
}

func TestZipArchiveAdapter_ReadMissing(t *testing.T) {
	adapter := NewZipArchiveAdapter()

	_, err := adapter.ReadArchive(context.Background(), m.Path(filepath.Join(t.TempDir(), "missing.zip")))
	require.Error(t, err)
}
