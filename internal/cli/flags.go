package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/pipeline"
)

// solveFlags are shared by every command that solves a document.
type solveFlags struct {
	width      float64
	height     float64
	cellWidth  float64
	cellHeight float64
	noCache    bool
	refresh    bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "container width (default: document width or minimum)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "container height (default: document height or minimum)")
	cmd.Flags().Float64Var(&f.cellWidth, "cell-width", 0, "label cell width (default: config or 8)")
	cmd.Flags().Float64Var(&f.cellHeight, "cell-height", 0, "label line height (default: config or 16)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options builds pipeline options, filling measurement defaults from the
// config.
func (c *CLI) options(f *solveFlags) pipeline.Options {
	opts := pipeline.Options{
		Width:      f.width,
		Height:     f.height,
		CellWidth:  f.cellWidth,
		CellHeight: f.cellHeight,
		Refresh:    f.refresh,
		Logger:     c.Logger,
	}
	if opts.CellWidth == 0 {
		opts.CellWidth = c.Config.Measure.CellWidth
	}
	if opts.CellHeight == 0 {
		opts.CellHeight = c.Config.Measure.CellHeight
	}
	return opts
}
