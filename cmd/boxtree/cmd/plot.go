package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bssrdf/boxtree/internal/plot"
	"github.com/bssrdf/boxtree/traversal"
	"github.com/bssrdf/boxtree/tree"
)

var (
	plotInput  string
	plotOutput string
	plotBox    int
	plotList   string
	plotWidth  int
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a 2-D box tree as SVG",
	Long: `Plot renders every box of a 2-D tree as an outlined square.
With --box it fills the chosen box, and with --list additionally fills the
members of that box's interaction list. Valid list names are: colleagues,
neighbor_source_boxes, sep_siblings, sep_smaller_nonsiblings,
sep_bigger_nonsiblings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := tree.ReadFile(plotInput)
		if err != nil {
			return err
		}

		info, err := traversal.Build(cmd.Context(), t, traversal.WithLogger(logger))
		if err != nil {
			return err
		}

		opts := plot.DefaultOptions()
		opts.Width = plotWidth
		opts.HighlightBox = plotBox
		opts.HighlightList = plotList

		if err := plot.WriteSVGFile(plotOutput, info, opts); err != nil {
			return err
		}
		logger.Info("plot written to %s", plotOutput)
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVarP(&plotInput, "input", "i", "", "Tree JSON file (required)")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "tree.svg", "Output SVG file")
	plotCmd.Flags().IntVar(&plotBox, "box", -1, "Box id to highlight")
	plotCmd.Flags().StringVar(&plotList, "list", "", "Interaction list of the highlighted box to fill")
	plotCmd.Flags().IntVar(&plotWidth, "width", 800, "Image width in pixels")
	_ = plotCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(plotCmd)
}
