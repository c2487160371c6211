package domain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

func TestTreeEntries(t *testing.T) {
	tree := m.NewSourceTree()
	tree.PutText("z/Last.java", "z")
	tree.PutResource("a/first.png", []byte("a"))
	tree.PutText("m/Mid.java", "m")

	entries := TreeEntries(tree)
	require.Len(t, entries, 3)
	assert.Equal(t, "a/first.png", entries[0].Name)
	assert.Equal(t, "m/Mid.java", entries[1].Name)
	assert.Equal(t, "z/Last.java", entries[2].Name)
	assert.Equal(t, []byte("z"), entries[2].Content)
}

func TestWriteTreeAndLoadTree(t *testing.T) {
	ctx := context.Background()
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	archives := adapter.NewZipArchiveAdapter()
	target := m.Path(filepath.Join(t.TempDir(), "snap", "tree.jar"))

	tree := baseTree()
	tree.PutResource("assets/logo.png", []byte{0x89, 'P', 'N', 'G'})

	size, err := WriteTree(ctx, archives, target, tree)
	require.NoError(t, err)
	assert.Equal(t, len(classA)+len(classB)+4, size)

	loaded, err := LoadTree(ctx, fsAdapter, archives, target)
	require.NoError(t, err)
	assert.Equal(t, tree, loaded)
}

func TestLoadTree_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pkg", "A.java"), classA)
	writeFile(t, filepath.Join(dir, "res", "strings.txt"), "hello")

	tree, err := LoadTree(context.Background(), adapter.NewLocalSourceFSAdapter(), adapter.NewZipArchiveAdapter(), m.Path(dir))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"pkg/A.java": classA}, tree.Text)
	assert.Equal(t, map[string][]byte{"res/strings.txt": []byte("hello")}, tree.Resources)
}

func TestLoadTree_Errors(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	writeFile(t, plain, "not an archive")

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	archives := adapter.NewZipArchiveAdapter()

	t.Run("missing", func(t *testing.T) {
		_, err := LoadTree(context.Background(), fsAdapter, archives, m.Path(filepath.Join(dir, "missing.zip")))
		require.Error(t, err)
	})

	t.Run("plain file", func(t *testing.T) {
		_, err := LoadTree(context.Background(), fsAdapter, archives, m.Path(plain))
		require.ErrorContains(t, err, "not a directory or archive")
	})
}
