package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bssrdf/boxtree/internal/stats"
	"github.com/bssrdf/boxtree/traversal"
	"github.com/bssrdf/boxtree/tree"
)

var (
	statsInput    string
	statsWorkers  int
	statsPerLevel bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Build a traversal and print its list statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := tree.ReadFile(statsInput)
		if err != nil {
			return err
		}

		workers := statsWorkers
		if workers == 0 {
			workers = cfg.Traversal.MaxWorkers
		}

		info, err := traversal.Build(cmd.Context(), t,
			traversal.WithWorkers(workers),
			traversal.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		summary := stats.Summarize(info)
		fmt.Fprint(cmd.OutOrStdout(), summary.Format())

		if statsPerLevel {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), summary.FormatPerLevel())
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsInput, "input", "i", "", "Tree JSON file (required)")
	statsCmd.Flags().IntVar(&statsWorkers, "workers", 0, "Worker goroutines per stage (0 = from config)")
	statsCmd.Flags().BoolVar(&statsPerLevel, "per-level", false, "Also print per-level entry totals")
	_ = statsCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(statsCmd)
}
