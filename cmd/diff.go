package cmd

import (
	"github.com/spf13/cobra"

	"stagepatch.dev/pkg/stagepatch/internal/domain"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two trees",
		Long:  "Compare two archives or directories, for example two stage snapshots, and print unified diffs of changed source files.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{
				Before: m.Path(args[0]),
				After:  m.Path(args[1]),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
