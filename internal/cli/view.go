package cli

import (
	"context"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// Terminal cells are roughly twice as tall as wide; the viewer canvas keeps
// that ratio so boxes are not distorted.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// viewOpts holds the flags of the view command.
type viewOpts struct {
	output  string
	noMouse bool
	noCache bool
}

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [payload.json]",
		Short: "Explore a diagram interactively in the terminal",
		Long: `View opens the diagram in a full-screen terminal viewer. Pan with the
arrow keys or by dragging, zoom with +/- or the mouse wheel, select nodes
with tab or a click and expand the selected inference with enter.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePayloads,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG path used by the save key (default: input name)")
	cmd.Flags().BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse support")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, opts viewOpts) error {
	spinner := newSpinnerWithContext(ctx, "Loading "+input+"...")
	spinner.Start()
	ws, err := c.openDiagram(ctx, input, opts.noCache, func(o *diagram.Options) {
		o.Canvas = viewport.Canvas{Width: defaultCols * cellWidth, Height: (defaultRows - chromeRows) * cellHeight}
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	defer ws.Close()

	// Log lines would tear the alternate screen; notices show in the status line.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(c.logOut)

	model := NewViewerModel(ctx, ws.diagram, filepath.Base(input), basePath(opts.output, input)+".svg")
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if !opts.noMouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
