package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	fuzzedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in run mode. Other modes print only.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if newStartConfig(options...).mode != ModeRun {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	program := tea.NewProgram(
		newRunModel(),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("Progress display stopped", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close stops the progress program and waits for its final render.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// send forwards msg to the running program or prints line when none runs.
func (t *TUI) send(msg tea.Msg, line string) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
		return
	}

	if line != "" {
		_, _ = fmt.Fprintln(t.output, line)
	}
}

// DisplayStageStarted updates the spinner label.
func (t *TUI) DisplayStageStarted(ctx context.Context, index, total int, stage m.Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	msg := stageStartedMsg{index: index, total: total, name: stage.Name}
	t.send(msg, msg.line())
}

// DisplayPatchReport prints fuzzed and failed patches above the spinner.
func (t *TUI) DisplayPatchReport(ctx context.Context, _ string, report m.PatchReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	msg := patchReportMsg{report: report}
	t.send(msg, msg.line())
}

// DisplayStageCompleted prints the stage outcome above the spinner.
func (t *TUI) DisplayStageCompleted(ctx context.Context, result m.StageResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	msg := stageCompletedMsg{result: result}
	t.send(msg, msg.line())
}

// DisplayRunSummary prints the per-stage table and the run outcome.
func (t *TUI) DisplayRunSummary(ctx context.Context, result m.RunResult, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	rows := make([]stageCounts, 0, len(result.Stages))
	for _, stage := range result.Stages {
		rows = append(rows, countsFromResult(stage))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Run summary"))
	b.WriteString("\n\n")
	b.WriteString(renderSummaryTable(rows))

	switch {
	case err != nil:
		b.WriteString(failedStyle.Render("✗ " + err.Error()))
	case result.Fuzzed():
		b.WriteString(fuzzedStyle.Render("! completed with fuzzed patches"))
	default:
		b.WriteString(successStyle.Render("✓ completed"))
	}

	b.WriteString("\n")

	_, writeErr := fmt.Fprint(t.output, b.String())

	return writeErr
}

// DisplayStages prints the configured stages.
func (t *TUI) DisplayStages(ctx context.Context, listings []m.StageListing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Stages"))
	b.WriteString("\n\n")
	b.WriteString(renderStagesTable(listings))

	for _, missing := range missingSources(listings) {
		b.WriteString(fuzzedStyle.Render("missing " + missing))
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayReport prints a saved run report.
func (t *TUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Run " + report.Started))
	b.WriteString("\n\n")

	rows := make([]stageCounts, 0, len(report.Stages))

	for _, stage := range report.Stages {
		rows = append(rows, countsFromReport(stage))

		for _, patch := range stage.Patches {
			if patch.Status == m.Success.String() {
				continue
			}

			fmt.Fprintf(&b, "%s %s %s\n", faintStyle.Render(stage.Name), statusStyle(patch.Status).Render(patch.Status), patch.Target)
		}

		for _, reject := range stage.Rejects {
			fmt.Fprintf(&b, "%s %s\n", faintStyle.Render(stage.Name), failedStyle.Render("rejects "+reject))
		}
	}

	b.WriteString("\n")
	b.WriteString(renderSummaryTable(rows))

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayDiff prints the differences between two trees.
func (t *TUI) DisplayDiff(ctx context.Context, diffs []m.FileDiff) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	if len(diffs) == 0 {
		b.WriteString(successStyle.Render("No differences"))
		b.WriteString("\n")
	}

	for _, diff := range diffs {
		switch diff.Kind {
		case m.Added:
			b.WriteString(successStyle.Render("+ " + diff.Path))
		case m.Removed:
			b.WriteString(failedStyle.Render("- " + diff.Path))
		default:
			b.WriteString(fuzzedStyle.Render("~ " + diff.Path))
		}

		b.WriteString("\n")

		if diff.Unified != "" {
			b.WriteString(faintStyle.Render(diff.Unified))
			b.WriteString("\n")
		}
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case m.Success.String():
		return successStyle
	case m.Fuzzed.String():
		return fuzzedStyle
	}

	return failedStyle
}

type stageStartedMsg struct {
	index int
	total int
	name  string
}

func (msg stageStartedMsg) line() string {
	return titleStyle.Render(fmt.Sprintf("[%d/%d] %s", msg.index+1, msg.total, msg.name))
}

type patchReportMsg struct {
	report m.PatchReport
}

func (msg patchReportMsg) line() string {
	line := fmt.Sprintf("  %s %s", statusStyle(msg.report.Status.String()).Render(msg.report.Status.String()), msg.report.Target)
	if msg.report.Status == m.Failed && msg.report.Failure != nil {
		line += "\n    " + faintStyle.Render(msg.report.Failure.Error())
	}

	return line
}

type stageCompletedMsg struct {
	result m.StageResult
}

func (msg stageCompletedMsg) line() string {
	counts := countsFromResult(msg.result)

	line := fmt.Sprintf("  %s: %d patch(es), %d fuzzed, %d failed", msg.result.Name, counts.patches, counts.fuzzed, counts.failed)
	if msg.result.Snapshot != "" {
		line += ", snapshot " + string(msg.result.Snapshot)
	}

	if counts.injected > 0 {
		line += fmt.Sprintf(", %d injected", counts.injected)
	}

	return faintStyle.Render(line)
}

// runModel is the Bubble Tea model following a pipeline run.
type runModel struct {
	spinner spinner.Model
	stage   string
	patches int
}

func newRunModel() runModel {
	return runModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageStartedMsg:
		rm.stage = fmt.Sprintf("%s (%d/%d)", msg.name, msg.index+1, msg.total)
		rm.patches = 0

		return rm, tea.Println(msg.line())

	case patchReportMsg:
		rm.patches++

		if msg.report.Status == m.Success {
			return rm, nil
		}

		return rm, tea.Println(msg.line())

	case stageCompletedMsg:
		return rm, tea.Println(msg.line())

	case spinner.TickMsg:
		var cmd tea.Cmd

		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

func (rm runModel) View() string {
	if rm.stage == "" {
		return rm.spinner.View() + " starting\n"
	}

	return fmt.Sprintf("%s %s %s\n", rm.spinner.View(), rm.stage, faintStyle.Render(fmt.Sprintf("%d patch(es)", rm.patches)))
}
