package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bssrdf/boxtree/pkg/config"
	"github.com/bssrdf/boxtree/pkg/telemetry"
	"github.com/bssrdf/boxtree/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger utils.Logger

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "boxtree",
	Short: "FMM interaction-list builder for box trees",
	Long: `boxtree builds the classical FMM interaction lists (colleagues and
lists 1-4 in the Carrier-Greengard-Rokhlin sense) for a pruned adaptive box
tree, and inspects, exports, persists or plots the result.

Trees are read from JSON files produced by an external tree builder; see the
tree package for the format.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logLevel := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		utils.SetGlobalLogger(logger)

		telemetryShutdown, err = telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("failed to initialize telemetry: %v", err)
			telemetryShutdown = nil
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			return telemetryShutdown(context.Background())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.Example = `  # Build the traversal of a tree and print list statistics
  boxtree build -i tree.json

  # Build with 4 workers and export the full traversal
  boxtree build -i tree.json --workers 4 --export traversal.json.gz

  # Persist a build report to the configured database
  boxtree build -i tree.json --report

  # Show per-level statistics
  boxtree stats -i tree.json --per-level

  # Plot a 2-D tree, highlighting list 3 of box 17
  boxtree plot -i tree.json -o tree.svg --box 17 --list sep_smaller_nonsiblings`
}
