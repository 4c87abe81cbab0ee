package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bssrdf/boxtree/internal/export"
	"github.com/bssrdf/boxtree/internal/report"
	"github.com/bssrdf/boxtree/internal/stats"
	"github.com/bssrdf/boxtree/internal/storage"
	"github.com/bssrdf/boxtree/traversal"
	"github.com/bssrdf/boxtree/tree"
)

var (
	buildInput     string
	buildWorkers   int
	buildExport    string
	buildReport    bool
	buildUploadKey string
	buildTreeName  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the traversal of a box tree",
	Long: `Build loads a tree, computes its full traversal (box partitions,
colleagues and interaction lists 1-4) and prints summary statistics.
The traversal can additionally be exported to JSON, uploaded to the
configured artifact storage, and recorded as a build report in the
configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := tree.ReadFile(buildInput)
		if err != nil {
			return err
		}

		workers := buildWorkers
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

		if buildExport != "" {
			if err := export.NewWriter().WriteFile(info, buildExport); err != nil {
				return err
			}
			logger.Info("traversal exported to %s", buildExport)
		}

		if buildUploadKey != "" {
			if buildExport == "" {
				return fmt.Errorf("--upload requires --export")
			}
			store, err := storage.New(&cfg.Storage)
			if err != nil {
				return err
			}
			if err := store.UploadFile(cmd.Context(), buildUploadKey, buildExport); err != nil {
				return err
			}
			logger.Info("traversal uploaded to %s", store.GetURL(buildUploadKey))
		}

		if buildReport {
			repo, err := report.Open(&cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			name := buildTreeName
			if name == "" {
				name = filepath.Base(buildInput)
			}
			r := report.NewBuildReport(name, info, summary)
			if err := repo.Save(cmd.Context(), r); err != nil {
				return err
			}
			logger.Info("build report %d saved", r.ID)
		}

		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildInput, "input", "i", "", "Tree JSON file (required)")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "Worker goroutines per stage (0 = from config)")
	buildCmd.Flags().StringVar(&buildExport, "export", "", "Export the traversal to this file (.json or .json.gz)")
	buildCmd.Flags().BoolVar(&buildReport, "report", false, "Save a build report to the configured database")
	buildCmd.Flags().StringVar(&buildUploadKey, "upload", "", "Upload the exported traversal under this storage key")
	buildCmd.Flags().StringVar(&buildTreeName, "tree-name", "", "Tree name recorded in the build report")
	_ = buildCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(buildCmd)
}
