package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/layout"
	"github.com/matzehuels/relayout/pkg/render/sink"
)

const (
	zoomStep = 1.25
	zoomMin  = 0.125
	zoomMax  = 8
)

var (
	previewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// =============================================================================
// PreviewModel - Interactive layout preview
// =============================================================================

// PreviewModel is the bubbletea model for browsing a solved layout.
// Tab cycles the selected component, +/- zoom and q quits.
type PreviewModel struct {
	Title      string
	Solution   *layout.Solution
	Placements []layout.Placement
	Labels     map[string]string
	Width      float64
	Height     float64
	ScaleX     float64
	ScaleY     float64
	Selected   int
	Zoom       float64
}

// NewPreviewModel creates a preview of sol placed in a width x height
// container.
func NewPreviewModel(title string, sol *layout.Solution, labels map[string]string, width, height float64) PreviewModel {
	width, height = sol.Fit(width, height)
	return PreviewModel{
		Title:      title,
		Solution:   sol,
		Placements: layout.Place(sol, width, height),
		Labels:     labels,
		Width:      width,
		Height:     height,
		ScaleX:     sink.DefaultTextScaleX,
		ScaleY:     sink.DefaultTextScaleY,
		Zoom:       1,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.Placements)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			if n > 0 {
				m.Selected = (m.Selected + 1) % n
			}
		case "shift+tab", "left", "h":
			if n > 0 {
				m.Selected = (m.Selected + n - 1) % n
			}
		case "+", "=":
			m.Zoom = min(m.Zoom*zoomStep, zoomMax)
		case "-", "_":
			m.Zoom = max(m.Zoom/zoomStep, zoomMin)
		case "0":
			m.Zoom = 1
		}
	}
	return m, nil
}

// SelectedID returns the ID of the selected component, or "".
func (m PreviewModel) SelectedID() string {
	if m.Selected < 0 || m.Selected >= len(m.Placements) {
		return ""
	}
	return m.Placements[m.Selected].ID
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %gx%g  zoom %.2fx", m.Width, m.Height, m.Zoom)))
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("tab/shift+tab select  +/- zoom  0 reset  q quit"))
	b.WriteString("\n\n")

	grid := sink.RenderText(m.Placements, m.Width, m.Height,
		sink.WithTextScale(m.ScaleX*m.Zoom, m.ScaleY*m.Zoom),
		sink.WithTextLabels(m.Labels),
		sink.WithTextHighlight(m.SelectedID()),
	)
	b.WriteString(previewFrameStyle.Render(grid))
	b.WriteString("\n\n")

	if id := m.SelectedID(); id != "" {
		b.WriteString(m.details(m.Selected))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Selected+1, len(m.Placements))))
	}
	return b.String()
}

// details renders the selected component's box and locked edges.
func (m PreviewModel) details(i int) string {
	p := m.Placements[i]
	r := m.Solution.Components[i]

	rows := make([][]string, 0, len(layout.AllEdges))
	for _, e := range layout.AllEdges {
		con := r.Edge(e)
		rows = append(rows, []string{
			e.String(),
			fmt.Sprintf("%g", con.Fraction),
			fmt.Sprintf("%+g", con.Offset),
			fmt.Sprintf("%d", r.LockedIn[e]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Edge", "Fraction", "Offset", "Pass").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	label := p.ID
	if l := m.Labels[p.ID]; l != "" {
		label = fmt.Sprintf("%s (%s)", l, p.ID)
	}
	box := p.Box
	head := StyleHighlight.Render(label) + StyleDim.Render(fmt.Sprintf("  %g,%g → %g,%g  %gx%g",
		box.Left, box.Top, box.Right, box.Bottom, box.Width(), box.Height()))
	return head + "\n" + t.Render()
}

// =============================================================================
// Command
// =============================================================================

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "preview <document>",
		Short: "Browse a solved layout in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, flags *solveFlags) error {
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
	sol, err := runner.Solve(ctx, opts)
	if err != nil {
		c.reportSolveError(err)
		return err
	}

	model := NewPreviewModel(docName(doc.Name, input), sol, doc.Labels(), opts.Width, opts.Height)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
