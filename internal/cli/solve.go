package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/pipeline"
	"github.com/matzehuels/relayout/pkg/render/sink"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var flags solveFlags
	var output string

	cmd := &cobra.Command{
		Use:   "solve <document>",
		Short: "Resolve a layout document",
		Long: `Resolve every edge constraint of a layout document (JSON, YAML or TOML)
and print the minimum container size and the number of passes per axis.

With -o the solution and placed boxes are written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], &flags, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the solution JSON to this file (- for stdout)")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, input string, flags *solveFlags, output string) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, err := runner.ParseFile(ctx, input)
	if err != nil {
		return err
	}

	opts := c.options(flags)
	opts.Document = doc
	if err := opts.ValidateForSolve(); err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	sol, cached, err := runner.SolveWithCacheInfo(ctx, opts)
	if err != nil {
		c.reportSolveError(err)
		return err
	}
	prog.done("Solved " + input)

	width, height := sol.Fit(opts.Width, opts.Height)
	if output == "-" {
		return c.writeSolution(doc, sol, width, height, output)
	}
	printSuccess(c.out, "Solved %s", StyleHighlight.Render(docName(doc.Name, input)))
	printStats(c.out, len(sol.Components), sol.PassesX, sol.PassesY, cached)
	printKeyValue(c.out, "minimum", fmt.Sprintf("%gx%g", sol.MinWidth, sol.MinHeight))
	printKeyValue(c.out, "container", fmt.Sprintf("%gx%g", width, height))

	if output == "" {
		printNextStep(c.out, "Render it", fmt.Sprintf("%s render %s -f svg,txt", appName, input))
		return nil
	}

	return c.writeSolution(doc, sol, width, height, output)
}

func (c *CLI) writeSolution(doc *document.Document, sol *layout.Solution, width, height float64, output string) error {
	data, err := sink.RenderJSON(sol, width, height,
		sink.WithJSONName(doc.Name),
		sink.WithJSONLabels(doc.Labels()),
		sink.WithJSONIndent(),
	)
	if err != nil {
		return err
	}
	return c.writeOutput(output, append(data, '\n'))
}

// reportSolveError prints the open edges and cycles of an unresolved layout.
func (c *CLI) reportSolveError(err error) {
	var ue *layout.UnresolvedError
	if !errors.As(err, &ue) {
		return
	}
	printError(c.out, "%d edges unresolved after %d passes", len(ue.Unresolved), ue.Passes)
	for _, r := range ue.Unresolved {
		fmt.Fprintln(c.out, "  "+StyleWarning.Render(r.String()))
	}
	for _, cycle := range ue.Cycles {
		names := make([]string, 0, len(cycle)+1)
		for _, r := range cycle {
			names = append(names, r.String())
		}
		names = append(names, cycle[0].String())
		fmt.Fprintln(c.out, "  "+StyleError.Render("cycle "+strings.Join(names, " → ")))
	}
	printNextStep(c.out, "Inspect the graph", fmt.Sprintf("%s graph <document>", appName))
}

// writeOutput writes data to path, or to the command output for "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(c.out, path)
	return nil
}

func docName(name, input string) string {
	if name != "" {
		return name
	}
	return input
}

// pipelineFormats parses a --format flag value, defaulting to svg.
func pipelineFormats(s string) ([]string, error) {
	formats, err := pipeline.ParseFormats(s)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}
	return formats, nil
}
