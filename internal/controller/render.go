package controller

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// stageCounts holds per-stage patch counts for summary tables.
type stageCounts struct {
	name     string
	patches  int
	fuzzed   int
	failed   int
	rejects  int
	injected int
}

func countsFromResult(result m.StageResult) stageCounts {
	counts := stageCounts{
		name:     result.Name,
		patches:  len(result.Reports),
		rejects:  len(result.Rejects),
		injected: result.Text + result.Resources,
	}

	for _, report := range result.Reports {
		switch report.Status {
		case m.Fuzzed:
			counts.fuzzed++
		case m.Failed:
			counts.failed++
		}
	}

	return counts
}

func countsFromReport(report m.StageReport) stageCounts {
	counts := stageCounts{
		name:     report.Name,
		patches:  len(report.Patches),
		rejects:  len(report.Rejects),
		injected: report.Injected,
	}

	for _, patch := range report.Patches {
		switch patch.Status {
		case m.Fuzzed.String():
			counts.fuzzed++
		case m.Failed.String():
			counts.failed++
		}
	}

	return counts
}

func renderSummaryTable(rows []stageCounts) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Stage", "Patches", "Fuzzed", "Failed", "Rejects", "Injected"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	var total stageCounts

	for _, row := range rows {
		table.Append([]string{
			row.name,
			fmt.Sprintf("%d", row.patches),
			fmt.Sprintf("%d", row.fuzzed),
			fmt.Sprintf("%d", row.failed),
			fmt.Sprintf("%d", row.rejects),
			fmt.Sprintf("%d", row.injected),
		})

		total.patches += row.patches
		total.fuzzed += row.fuzzed
		total.failed += row.failed
		total.rejects += row.rejects
		total.injected += row.injected
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Stages %d", len(rows)),
		fmt.Sprintf("%d", total.patches),
		fmt.Sprintf("%d", total.fuzzed),
		fmt.Sprintf("%d", total.failed),
		fmt.Sprintf("%d", total.rejects),
		fmt.Sprintf("%d", total.injected),
	})

	table.Render()

	return tableBuffer.String()
}

func renderStagesTable(listings []m.StageListing) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Stage", "Patches", "Injections", "Size", "Snapshot"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	var (
		patches int
		injects int
		size    int64
	)

	for _, listing := range listings {
		table.Append([]string{
			listing.Name,
			fmt.Sprintf("%d", listing.Patches),
			fmt.Sprintf("%d", listing.Injects),
			humanize.Bytes(uint64(max(listing.Bytes, 0))),
			string(listing.Snapshot),
		})

		patches += listing.Patches
		injects += listing.Injects
		size += listing.Bytes
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Stages %d", len(listings)),
		fmt.Sprintf("%d", patches),
		fmt.Sprintf("%d", injects),
		humanize.Bytes(uint64(max(size, 0))),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func missingSources(listings []m.StageListing) []string {
	var missing []string

	for _, listing := range listings {
		for _, path := range listing.Missing {
			missing = append(missing, fmt.Sprintf("%s: %s", listing.Name, path))
		}
	}

	return missing
}
