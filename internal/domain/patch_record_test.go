package domain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
	"stagepatch.dev/pkg/stagepatch/internal/patch"
	patchmocks "stagepatch.dev/pkg/stagepatch/internal/patch/mocks"
)

func TestRecordLoader_Load(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "01-a.patch")
	pathB := filepath.Join(dir, "02-b.patch")
	writeFile(t, pathA, patchA)
	writeFile(t, pathB, patchB)

	loader := recordLoader{
		fsAdapter: adapter.NewLocalSourceFSAdapter(),
		engine:    patch.NewContextualEngine(),
		maxFuzz:   2,
		parallel:  1,
	}
	accessor := NewContextAccessor(baseTree())

	t.Run("keeps input order", func(t *testing.T) {
		records, err := loader.load(context.Background(), []m.PatchFile{
			{Name: pathB, Origin: m.Path(pathB)},
			{Name: pathA, Origin: m.Path(pathA)},
			{Name: "bundle.zip!inline.patch", Text: patchA},
		}, accessor)
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, pathB, records[0].Name)
		assert.Equal(t, patchB, records[0].Text)
		assert.Equal(t, pathA, records[1].Name)
		assert.Equal(t, patchA, records[2].Text)
		assert.Equal(t, 2, records[2].maxFuzz)
	})

	t.Run("parse error names the file", func(t *testing.T) {
		_, err := loader.load(context.Background(), []m.PatchFile{
			{Name: "broken.patch", Text: "@@ -1 +1 @@\n"},
		}, accessor)
		require.ErrorIs(t, err, patch.ErrMalformedPatch)
		assert.Contains(t, err.Error(), "broken.patch")
	})

	t.Run("read error", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.patch")

		_, err := loader.load(context.Background(), []m.PatchFile{{Name: missing, Origin: m.Path(missing)}}, accessor)
		require.Error(t, err)
	})
}

func TestPatchRecord_ApplyTagsSource(t *testing.T) {
	engine := patchmocks.NewMockEngine(t)
	accessor := NewContextAccessor(baseTree())

	engine.On("Apply", mock.Anything, "text", accessor, 1).Return([]m.PatchReport{
		{Target: "a/b/c/pkg/A.java"},
		{Target: "a/b/c/pkg/B.java"},
	}, nil)

	record := &PatchRecord{Name: "01.patch", Text: "text", engine: engine, provider: accessor, maxFuzz: 1}

	reports, err := record.Apply(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for _, report := range reports {
		assert.Equal(t, "01.patch", report.Source)
	}
}
