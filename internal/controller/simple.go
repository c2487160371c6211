package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayStageStarted prints the stage header.
func (s *SimpleUI) DisplayStageStarted(ctx context.Context, index, total int, stage m.Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%d/%d] Stage %s\n", index+1, total, stage.Name)
}

// DisplayPatchReport prints one line per patched target.
func (s *SimpleUI) DisplayPatchReport(ctx context.Context, _ string, report m.PatchReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("  %-8s %s (%s)\n", colorStatus(report.Status), report.Target, report.Source)

	if report.Status == m.Failed && report.Failure != nil {
		s.printf("           %v\n", report.Failure)
	}
}

// DisplayStageCompleted prints what the stage produced.
func (s *SimpleUI) DisplayStageCompleted(ctx context.Context, result m.StageResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, reject := range result.Rejects {
		s.printf("  %s %s\n", color.RedString("rejects"), reject)
	}

	if result.Snapshot != "" {
		s.printf("  snapshot %s\n", result.Snapshot)
	}

	if injected := result.Text + result.Resources; injected > 0 {
		s.printf("  injected %d text, %d resource file(s)\n", result.Text, result.Resources)
	}
}

// DisplayRunSummary prints the per-stage table and the run outcome.
func (s *SimpleUI) DisplayRunSummary(ctx context.Context, result m.RunResult, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	rows := make([]stageCounts, 0, len(result.Stages))
	for _, stage := range result.Stages {
		rows = append(rows, countsFromResult(stage))
	}

	s.printf("\n%s", renderSummaryTable(rows))

	switch {
	case err != nil:
		s.printf("%s %v\n", color.RedString("Run failed:"), err)
	case result.Fuzzed():
		s.printf("%s\n", color.YellowString("Run completed with fuzzed patches"))
	default:
		s.printf("%s\n", color.GreenString("Run completed"))
	}

	return nil
}

// DisplayStages prints the configured stages.
func (s *SimpleUI) DisplayStages(ctx context.Context, listings []m.StageListing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderStagesTable(listings))

	for _, missing := range missingSources(listings) {
		s.printf("%s %s\n", color.YellowString("missing"), missing)
	}

	return nil
}

// DisplayReport prints a saved run report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Run started %s\n", report.Started)

	rows := make([]stageCounts, 0, len(report.Stages))

	for _, stage := range report.Stages {
		rows = append(rows, countsFromReport(stage))

		for _, patch := range stage.Patches {
			if patch.Status == m.Success.String() {
				continue
			}

			s.printf("  %s %-8s %s (%d/%d hunks)\n", stage.Name, patch.Status, patch.Target, patch.Failed+patch.Fuzzed, patch.Hunks)
		}

		for _, reject := range stage.Rejects {
			s.printf("  %s %s %s\n", stage.Name, color.RedString("rejects"), reject)
		}
	}

	s.printf("\n%s", renderSummaryTable(rows))

	return nil
}

// DisplayDiff prints the differences between two trees.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diffs []m.FileDiff) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(diffs) == 0 {
		s.printf("No differences\n")
		return nil
	}

	for _, diff := range diffs {
		switch diff.Kind {
		case m.Added:
			s.printf("%s\n", color.GreenString("+ %s", diff.Path))
		case m.Removed:
			s.printf("%s\n", color.RedString("- %s", diff.Path))
		default:
			s.printf("%s\n", color.YellowString("~ %s", diff.Path))
		}

		if diff.Unified != "" {
			s.printf("%s\n", colorUnified(diff.Unified))
		}
	}

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func colorStatus(status m.PatchStatus) string {
	switch status {
	case m.Success:
		return color.GreenString("%s", status.String())
	case m.Fuzzed:
		return color.YellowString("%s", status.String())
	case m.Failed:
		return color.RedString("%s", status.String())
	}

	return status.String()
}

func colorUnified(unified string) string {
	lines := strings.Split(unified, "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = color.New(color.Bold).Sprint(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = color.CyanString("%s", line)
		case strings.HasPrefix(line, "+"):
			lines[i] = color.GreenString("%s", line)
		case strings.HasPrefix(line, "-"):
			lines[i] = color.RedString("%s", line)
		}
	}

	return strings.Join(lines, "\n")
}
