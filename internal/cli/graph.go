package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/pipeline"
	"github.com/matzehuels/relayout/pkg/render/graphviz"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags solveFlags
	var output string
	var svg bool

	cmd := &cobra.Command{
		Use:   "graph <document>",
		Short: "Print the constraint graph",
		Long: `Print the constraint graph of a layout document in DOT format.

The graph has one node per component and a container node for anchors.
Edges of a reference cycle that keeps the layout from converging are drawn
in red, so the command is most useful on documents that fail to solve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], &flags, output, svg)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render the graph to SVG with Graphviz")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, flags *solveFlags, output string, svg bool) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	doc, err := runner.ParseFile(ctx, input)
	if err != nil {
		return err
	}

	opts := c.options(flags)
	opts.Document = doc
	var unresolved *layout.UnresolvedError
	if _, err := pipeline.Solve(ctx, opts); err != nil {
		if !errors.As(err, &unresolved) {
			return err
		}
		c.Logger.Warn("layout does not converge", "open", len(unresolved.Unresolved), "cycles", len(unresolved.Cycles))
	}

	dot, err := pipeline.GraphDOT(doc, opts, unresolved)
	if err != nil {
		return err
	}
	data := []byte(dot)
	if svg {
		if data, err = graphviz.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}
	return c.writeOutput(output, data)
}
