package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	solveFlags
	output     string   // output file (single format) or base path
	formats    []string // output formats: svg, json, txt, dot, graph
	slots      bool     // outline slots behind boxes (svg)
	highlight  string   // component to emphasize
	textScaleX float64  // character columns per layout unit (txt)
	textScaleY float64  // character rows per layout unit (txt)
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a layout document",
		Long: `Solve a layout document and write one file per requested format.

Formats:
  svg    placed boxes
  json   solution, edges and boxes
  txt    ASCII drawing
  dot    constraint graph (Graphviz source)
  graph  constraint graph rendered to SVG

With a single format, -o names the file ("-" writes to stdout). With several,
-o is a base path and each format gets its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipelineFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			if opts.output == "-" && len(formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format")
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.solveFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, txt, dot, graph (comma-separated)")
	cmd.Flags().BoolVar(&opts.slots, "slots", false, "outline component slots (svg)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "component ID to highlight")
	cmd.Flags().Float64Var(&opts.textScaleX, "text-scale-x", 0, "columns per layout unit (txt)")
	cmd.Flags().Float64Var(&opts.textScaleY, "text-scale-y", 0, "rows per layout unit (txt)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, err := runner.ParseFile(ctx, input)
	if err != nil {
		return err
	}

	popts := c.options(&opts.solveFlags)
	popts.Document = doc
	popts.Formats = opts.formats
	popts.Slots = opts.slots
	popts.Highlight = opts.highlight
	popts.TextScaleX = opts.textScaleX
	popts.TextScaleY = opts.textScaleY

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		c.reportSolveError(err)
		return err
	}

	if opts.output != "-" {
		printSuccess(c.out, "Rendered %s", StyleHighlight.Render(docName(doc.Name, input)))
		printStats(c.out, result.Stats.Components, result.Stats.PassesX, result.Stats.PassesY,
			result.CacheInfo.SolveHit && result.CacheInfo.RenderHit)
	}

	if len(opts.formats) == 1 {
		format := opts.formats[0]
		path := opts.output
		if path == "" {
			path = basePath("", input) + "." + pipeline.Extension(format)
		}
		return c.writeOutput(path, result.Artifacts[format])
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := c.writeOutput(base+"."+pipeline.Extension(format), result.Artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
