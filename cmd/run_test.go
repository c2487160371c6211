package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stagepatch.dev/pkg/stagepatch/internal/domain"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

const runTestConfig = `version: 1
stages:
  - name: forge
    patches: patches/forge
    snapshot: out/forge.zip
  - patches: patches/fml
    inject:
      - common
      - client
patch:
  max_fuzz: 2
`

func TestRunCmd_PassesConfiguredStages(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newRunCmd())
	path := writeTestConfig(t, runTestConfig)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Input == m.Path("minecraft.jar") &&
			len(args.Stages) == 2 &&
			assert.ObjectsAreEqual(m.Stage{Name: "forge", PatchSource: "patches/forge", SnapshotTarget: "out/forge.zip"}, args.Stages[0]) &&
			args.Stages[1].Name == "stage-2" &&
			assert.ObjectsAreEqual([]m.Path{"common", "client"}, args.Stages[1].Inject) &&
			args.MaxFuzz == 2 &&
			args.AccessC14N &&
			args.FailOnReject
	})).Return(nil).Once()

	cmd.SetArgs([]string{"run", "--config", path, "--input", "minecraft.jar"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_FlagsOverrideConfig(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newRunCmd())
	path := writeTestConfig(t, runTestConfig)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.MaxFuzz == 0 &&
			args.Parallel == 8 &&
			!args.FailOnReject &&
			args.Output == m.Path("patched.zip") &&
			args.Reports == m.Path("reports-dir") &&
			assert.ObjectsAreEqual([]string{"**/wip/**", "*.orig"}, args.Exclude)
	})).Return(nil).Once()

	cmd.SetArgs([]string{
		"run", "--config", path, "-i", "minecraft.jar",
		"--max-fuzz", "0", "-p", "8", "--fail-on-reject=false",
		"-o", "patched.zip", "--reports", "reports-dir",
		"-x", "**/wip/**", "-x", "*.orig",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_InputFromEnv(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newRunCmd())
	t.Setenv("STAGEPATCH_INPUT", "from-env.zip")

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Input == m.Path("from-env.zip")
	})).Return(nil).Once()

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_PropagatesWorkflowError(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newRunCmd())

	mockWorkflow.On("Run", mock.Anything, mock.Anything).Return(domain.ErrPatchesFailed).Once()

	cmd.SetArgs([]string{"run", "--input", "minecraft.jar"})
	require.ErrorIs(t, cmd.Execute(), domain.ErrPatchesFailed)
}

func TestRunCmd_PositionalArgsAreRejected(t *testing.T) {
	cmd, _ := newTestRootCmd(t, newRunCmd())

	cmd.SetArgs([]string{"run", "--input", "minecraft.jar", "extra"})
	require.Error(t, cmd.Execute())
}

func TestRunCmd_RequiresInput(t *testing.T) {
	cmd, _ := newTestRootCmd(t, newRunCmd())
	t.Setenv("STAGEPATCH_INPUT", "")

	cmd.SetArgs([]string{"run", "--input", ""})

	err := cmd.Execute()
	require.True(t, errors.Is(err, errNoInput), "got %v", err)
}
