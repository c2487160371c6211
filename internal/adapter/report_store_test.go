package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

func TestYAMLReportStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	report := m.RunReport{
		Started: "2026-01-02T03:04:05Z",
		Fuzzed:  true,
		Stages: []m.StageReport{
			{
				Name:     "core",
				Fuzzed:   true,
				Failure:  "patch failed",
				Rejects:  []string{"src/main/java/pkg/A.java.rej"},
				Injected: 2,
				Patches: []m.FileReport{
					{Target: "a/b/c/pkg/A.java", Source: "core.patch", Status: "failed", Hunks: 3, Failed: 1},
				},
			},
		},
	}

	require.NoError(t, store.SaveReport(ctx, dir, report))

	_, err := os.Stat(filepath.Join(string(dir), ReportFileName))
	require.NoError(t, err)

	loaded, err := store.LoadReport(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
}

func TestYAMLReportStore_LoadMissing(t *testing.T) {
	store := NewReportStore()

	_, err := store.LoadReport(context.Background(), m.Path(t.TempDir()))
	require.Error(t, err)
}
