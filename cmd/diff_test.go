package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stagepatch.dev/pkg/stagepatch/internal/domain"
)

func TestDiffCmd_PassesBothTrees(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newDiffCmd())

	mockWorkflow.On("Diff", mock.Anything, domain.DiffArgs{Before: "out/forge.zip", After: "out/fml.zip"}).Return(nil).Once()

	cmd.SetArgs([]string{"diff", "out/forge.zip", "out/fml.zip"})
	require.NoError(t, cmd.Execute())
}

func TestDiffCmd_RequiresTwoArgs(t *testing.T) {
	cmd, _ := newTestRootCmd(t, newDiffCmd())

	cmd.SetArgs([]string{"diff", "out/forge.zip"})
	require.Error(t, cmd.Execute())
}

func TestDiffCmd_PropagatesError(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newDiffCmd())
	boom := errors.New("boom")

	mockWorkflow.On("Diff", mock.Anything, mock.Anything).Return(boom).Once()

	cmd.SetArgs([]string{"diff", "a", "b"})
	require.ErrorIs(t, cmd.Execute(), boom)
}
