package model

import "errors"

// PatchStatus is the outcome of applying a hunk or a whole file patch.
// Values are ordered by severity so the worst of a set is its maximum.
type PatchStatus int

const (
	// Success indicates the hunk matched its context exactly.
	Success PatchStatus = iota
	// Fuzzed indicates the hunk applied only after ignoring context lines.
	Fuzzed
	// Failed indicates the hunk could not be matched within the fuzz tolerance.
	Failed
)

func (s PatchStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Fuzzed:
		return "fuzzed"
	case Failed:
		return "failed"
	}

	return "unknown"
}

// IsSuccess reports whether the status is anything other than Failed.
func (s PatchStatus) IsSuccess() bool {
	return s != Failed
}

// HunkReport is the per-hunk outcome of a patch application.
type HunkReport struct {
	ID      int
	Status  PatchStatus
	Fuzz    int   // context lines ignored on each side, set when Fuzzed
	Offset  int   // lines between the expected and the actual position
	Index   int   // 0-based line where the hunk applied, -1 when Failed
	Failure error // set when Failed
	Lines   []string
}

// PatchReport is the per-target outcome of a patch application.
type PatchReport struct {
	// Target is the path as written in the patch header, not normalized.
	Target string
	// Source names the patch file the report came from.
	Source  string
	Status  PatchStatus
	Failure error
	Hunks   []HunkReport
}

// WorstStatus returns the most severe status among the hunks.
func WorstStatus(hunks []HunkReport) PatchStatus {
	worst := Success

	for _, hunk := range hunks {
		if hunk.Status > worst {
			worst = hunk.Status
		}
	}

	return worst
}

// CountHunks returns how many hunks have the given status.
func (r PatchReport) CountHunks(status PatchStatus) int {
	count := 0

	for _, hunk := range r.Hunks {
		if hunk.Status == status {
			count++
		}
	}

	return count
}

// StageResult collects what happened during one stage.
type StageResult struct {
	Name      string
	Fuzzed    bool
	Failure   error
	Reports   []PatchReport
	Rejects   []Path
	Snapshot  Path
	Text      int // injected text files
	Resources int // injected resource files
}

// Failed reports whether the stage recorded a failure.
func (r StageResult) Failed() bool {
	return len(r.Rejects) > 0 || r.Failure != nil
}

// RunResult collects the stage results of a pipeline run in order.
type RunResult struct {
	Stages []StageResult
}

// Fuzzed reports whether any stage applied a patch with fuzz.
func (r RunResult) Fuzzed() bool {
	for _, stage := range r.Stages {
		if stage.Fuzzed {
			return true
		}
	}

	return false
}

// Err joins the failures recorded by every stage. It is nil for a clean run.
func (r RunResult) Err() error {
	var errs []error

	for _, stage := range r.Stages {
		if stage.Failure != nil {
			errs = append(errs, stage.Failure)
		} else if len(stage.Rejects) > 0 {
			errs = append(errs, errors.New("stage "+stage.Name+" produced rejects"))
		}
	}

	return errors.Join(errs...)
}

// RunReport is the persisted summary of a run.
type RunReport struct {
	Started string        `yaml:"started"`
	Fuzzed  bool          `yaml:"fuzzed"`
	Stages  []StageReport `yaml:"stages"`
}

// StageReport is the persisted summary of one stage.
type StageReport struct {
	Name     string       `yaml:"name"`
	Fuzzed   bool         `yaml:"fuzzed"`
	Failure  string       `yaml:"failure,omitempty"`
	Snapshot string       `yaml:"snapshot,omitempty"`
	Rejects  []string     `yaml:"rejects,omitempty"`
	Injected int          `yaml:"injected"`
	Patches  []FileReport `yaml:"patches,omitempty"`
}

// FileReport is the persisted summary of one patch report.
type FileReport struct {
	Target string `yaml:"target"`
	Source string `yaml:"source"`
	Status string `yaml:"status"`
	Hunks  int    `yaml:"hunks"`
	Fuzzed int    `yaml:"fuzzed,omitempty"`
	Failed int    `yaml:"failed,omitempty"`
}

// NewStageReport converts a stage result into its persisted form.
func NewStageReport(result StageResult) StageReport {
	report := StageReport{
		Name:     result.Name,
		Fuzzed:   result.Fuzzed,
		Snapshot: string(result.Snapshot),
		Injected: result.Text + result.Resources,
	}

	if result.Failure != nil {
		report.Failure = result.Failure.Error()
	}

	for _, reject := range result.Rejects {
		report.Rejects = append(report.Rejects, string(reject))
	}

	for _, patch := range result.Reports {
		report.Patches = append(report.Patches, FileReport{
			Target: patch.Target,
			Source: patch.Source,
			Status: patch.Status.String(),
			Hunks:  len(patch.Hunks),
			Fuzzed: patch.CountHunks(Fuzzed),
			Failed: patch.CountHunks(Failed),
		})
	}

	return report
}
