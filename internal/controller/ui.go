// Package controller provides output adapters for displaying pipeline progress
// and results.
package controller

import (
	"context"

	"github.com/spf13/cobra"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeStatic StartMode = iota
	ModeRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithStaticMode sets the UI to print results only.
func WithStaticMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeStatic
	}
}

// WithRunMode sets the UI to follow a pipeline run.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	config := StartConfig{mode: ModeStatic}
	for _, option := range options {
		option(&config)
	}

	return config
}

// UI defines the interface for displaying pipeline progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
//
//nolint:interfacebloat // One method per rendered artifact.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayStageStarted(ctx context.Context, index, total int, stage m.Stage)
	DisplayPatchReport(ctx context.Context, stage string, report m.PatchReport)
	DisplayStageCompleted(ctx context.Context, result m.StageResult)
	DisplayRunSummary(ctx context.Context, result m.RunResult, err error) error
	DisplayStages(ctx context.Context, listings []m.StageListing) error
	DisplayReport(ctx context.Context, report m.RunReport) error
	DisplayDiff(ctx context.Context, diffs []m.FileDiff) error
}

// NewUI picks the interactive UI for terminals and the plain one otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
