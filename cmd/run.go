package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stagepatch.dev/pkg/stagepatch/internal/domain"
	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

const runLongDescription = `Run every configured stage against the input tree.

The input is a .zip/.jar archive or a directory. Stages run in declaration
order: patches are applied, then the snapshot is exported, then files are
injected. The final tree is written to --output when set.`

var runInputFlag string
var runMaxFuzzFlag int
var runFailOnRejectFlag bool
var runParallelFlag int

// errNoInput is returned when neither the flag nor the config names an input.
var errNoInput = errors.New("no input configured: pass --input or set input in " + configFileName)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured patch stages",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := viper.GetString(inputConfigKey)
			if input == "" {
				return errNoInput
			}

			stages, err := loadStages()
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				Input:        m.Path(input),
				Output:       m.Path(viper.GetString(outputConfigKey)),
				Reports:      m.Path(viper.GetString(reportsConfigKey)),
				Rejects:      m.Path(viper.GetString(rejectsConfigKey)),
				Stages:       stages,
				MaxFuzz:      viper.GetInt(maxFuzzConfigKey),
				AccessC14N:   viper.GetBool(accessC14NConfigKey),
				Parallel:     viper.GetInt(parallelConfigKey),
				Exclude:      viper.GetStringSlice(excludeConfigKey),
				FailOnReject: viper.GetBool(failOnRejectConfigKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runInputFlag, inputFlagName, "i", viper.GetString(inputConfigKey), "input archive (.zip/.jar) or directory")
	bindFlagToConfig(cmd.Flags().Lookup(inputFlagName), inputConfigKey)

	cmd.Flags().IntVar(&runMaxFuzzFlag, maxFuzzFlagName, viper.GetInt(maxFuzzConfigKey), "context lines a hunk may ignore on each side")
	bindFlagToConfig(cmd.Flags().Lookup(maxFuzzFlagName), maxFuzzConfigKey)

	cmd.Flags().BoolVar(&runFailOnRejectFlag, failOnRejectFlagName, viper.GetBool(failOnRejectConfigKey), "exit non-zero when hunks were rejected")
	bindFlagToConfig(cmd.Flags().Lookup(failOnRejectFlagName), failOnRejectConfigKey)

	cmd.Flags().IntVarP(&runParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of patch files read in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}
