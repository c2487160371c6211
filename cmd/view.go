package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stagepatch.dev/pkg/stagepatch/internal/domain"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the report of the last run",
		Long:  "View the report saved by the last run from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(reportsConfigKey))
			return workflow.View(cmd.Context(), domain.ViewArgs{Reports: reportsPath})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
