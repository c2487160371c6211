// Package cmd provides the root command and CLI setup for stagepatch.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"stagepatch.dev/pkg/stagepatch/internal/adapter"
	"stagepatch.dev/pkg/stagepatch/internal/controller"
	"stagepatch.dev/pkg/stagepatch/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var archiveAdapter adapter.ArchiveAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// configFileFlag overrides the configuration file location.
var configFileFlag string

// outputFlag is the archive the final tree is written to.
var outputFlag string

// reportsFlag is a root-level flag shared by commands that read/write reports.
var reportsFlag string

// verboseFlag forces debug logging.
var verboseFlag bool

// excludePatterns is a root-level flag that filters patch and injection files.
var excludePatterns []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	archiveAdapter = adapter.NewZipArchiveAdapter()
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(
		fsAdapter,
		archiveAdapter,
		reportStore,
		ui,
		domain.DefaultEngineFactory,
	)
}

const rootLongDescription = `Stagepatch applies ordered stages of unified-diff patches to a source tree.

Each stage may apply a directory or archive of .patch files, export a snapshot
archive of the tree, and inject files from directories. Failed hunks are
written to .rej files and fuzzed matches are reported.

Stages are declared in stagepatch.yaml.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "stagepatch",
		Short:        "Staged patch application tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configFileFlag != "" {
				viper.SetConfigFile(configFileFlag)

				if err := readConfig(); err != nil {
					return err
				}
			}

			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configFileFlag, configFlagName, "", "configuration file (default ./"+configFileName+")")

	cmd.PersistentFlags().
		StringVarP(
			&outputFlag, outputFlagName, "o",
			viper.GetString(outputConfigKey),
			"archive the final tree is written to",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputConfigKey)

	cmd.PersistentFlags().StringVar(&reportsFlag, reportsFlagName, viper.GetString(reportsConfigKey), "directory for run reports")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(reportsFlagName), reportsConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude patch and injection files matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
